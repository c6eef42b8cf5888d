// Package notify alerts the user when a phase of a practice session ends
package notify

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/ayoisaiah/sketch/internal/apperr"
	"github.com/ayoisaiah/sketch/internal/config"
)

// sampleRate is the rate the speaker runs at. Sounds recorded at other rates
// are resampled.
const sampleRate beep.SampleRate = 44100

var errSoundFormat = &apperr.Error{
	Message: "unsupported sound format: %s",
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// Notifier shows desktop notifications and plays an optional sound.
type Notifier struct {
	send    func(title, message, icon string) error
	play    func(path string) error
	log     *slog.Logger
	sound   string
	icon    string
	enabled bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithIcon sets the icon shown with desktop notifications.
func WithIcon(path string) Option {
	return func(n *Notifier) {
		n.icon = path
	}
}

// WithLogger sets the logger used to report delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) {
		n.log = l
	}
}

// New creates a Notifier from the notification settings.
func New(cfg config.NotificationConfig, opts ...Option) *Notifier {
	n := &Notifier{
		send:    beeep.Notify,
		play:    playFile,
		log:     slog.Default(),
		sound:   cfg.Sound,
		enabled: cfg.Enabled,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Alert notifies the user and blocks until the sound, if any, has finished.
// Nothing happens when notifications are disabled.
func (n *Notifier) Alert(title, message string) error {
	if n == nil || !n.enabled {
		return nil
	}

	var errs []error

	if err := n.send(title, message, n.icon); err != nil {
		errs = append(errs, err)
	}

	if n.sound != "" {
		if err := n.play(n.sound); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		n.log.Warn(
			"notification failed",
			slog.String("title", title),
			slog.Any("error", err),
		)
	}

	return err
}

// decode opens an audio file with the decoder matching its extension.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, errSoundFormat.Fmt(path)
	}

	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, err
	}

	return stream, format, nil
}

func playFile(path string) error {
	stream, format, err := decode(path)
	if err != nil {
		return err
	}

	defer stream.Close()

	speakerOnce.Do(func() {
		bufferSize := 10

		speakerErr = speaker.Init(
			sampleRate,
			sampleRate.N(time.Second/time.Duration(bufferSize)),
		)
	})

	if speakerErr != nil {
		return speakerErr
	}

	var s beep.Streamer = stream
	if format.SampleRate != sampleRate {
		s = beep.Resample(4, format.SampleRate, sampleRate, stream)
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	<-done

	return nil
}
