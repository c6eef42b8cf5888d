// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const secondsInAMinute = 60

// Clock formats a countdown as MM:SS, rounding partial seconds up so the
// display reaches 00:00 only when the time is up.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	secs := int(math.Ceil(d.Seconds()))

	return fmt.Sprintf("%02d:%02d", secs/secondsInAMinute, secs%secondsInAMinute)
}

// Seconds describes a whole number of seconds in the largest sensible unit,
// e.g. 45s, 2m or 1m30s.
func Seconds(secs int) string {
	d := time.Duration(secs) * time.Second

	switch {
	case secs < secondsInAMinute:
		return fmt.Sprintf("%ds", secs)
	case secs%secondsInAMinute == 0:
		return fmt.Sprintf("%dm", secs/secondsInAMinute)
	default:
		return d.String()
	}
}

// FromStr parses an absolute or relative date such as "2024-03-01" or
// "2 weeks ago" relative to now.
func FromStr(s string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, err
	}

	return dt.Time, nil
}

// Format renders a timestamp for tables, honouring the 24-hour setting.
func Format(t time.Time, twentyFourHour bool) string {
	if twentyFourHour {
		return t.Format("Jan 02, 2006 15:04")
	}

	return t.Format("Jan 02, 2006 03:04 PM")
}
