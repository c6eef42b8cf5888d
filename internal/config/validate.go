package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

var (
	minTickInterval = 10 * time.Millisecond
	maxTickInterval = 1 * time.Second

	soundExts = []string{".mp3", ".ogg", ".flac", ".wav"}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if c.Session.TickInterval < minTickInterval ||
		c.Session.TickInterval > maxTickInterval {
		return errInvalidTickInterval.Fmt(
			minTickInterval,
			maxTickInterval,
			c.Session.TickInterval,
		)
	}

	if c.Notifications.Sound != "" {
		if err := validateSound(c.Notifications.Sound); err != nil {
			return err
		}
	}

	return nil
}

// validateSound checks that sound is an existing audio file in a format the
// player can decode.
func validateSound(sound string) error {
	ext := strings.ToLower(filepath.Ext(sound))

	if !slices.Contains(soundExts, ext) {
		return errInvalidSoundFormat.Fmt(sound)
	}

	_, err := os.Stat(sound)
	if errors.Is(err, os.ErrNotExist) {
		return errSoundNotFound.Fmt(sound)
	}

	return err
}
