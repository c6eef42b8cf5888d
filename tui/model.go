// Package tui renders a running practice session in the terminal
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/practice"
)

// Session is the practice engine driven by the screen.
type Session interface {
	Run(ctx context.Context, plan models.Plan) error
	Skip(ctx context.Context) error
	TogglePause(ctx context.Context) error
	End(ctx context.Context) error
	Snapshot() practice.Snapshot
}

// Alerter notifies the user when a phase ends.
type Alerter interface {
	Alert(title, message string) error
}

type (
	eventMsg struct {
		event practice.Event
	}

	runDoneMsg struct {
		err error
	}

	actionMsg struct {
		err error
	}
)

// Model is the bubbletea model for a practice session.
type Model struct {
	ctx       context.Context
	session   Session
	alerter   Alerter
	events    chan practice.Event
	cancel    context.CancelFunc
	tags      map[uint64]string
	err       error
	styles    styles
	keys      keymap
	help      help.Model
	progress  progress.Model
	plan      models.Plan
	snap      practice.Snapshot
	remaining time.Duration
	current   practice.ExerciseStarted
	phase     practice.State
	finished  bool
	quitting  bool
}

// Option configures a Model.
type Option func(*Model)

// WithAlerter sets the notifier used at the end of each phase.
func WithAlerter(a Alerter) Option {
	return func(m *Model) {
		m.alerter = a
	}
}

// WithTagNames sets the category names shown for each exercise.
func WithTagNames(names map[uint64]string) Option {
	return func(m *Model) {
		m.tags = names
	}
}

// WithDarkTheme selects colours for dark or light terminals.
func WithDarkTheme(dark bool) Option {
	return func(m *Model) {
		m.styles = newStyles(dark)
	}
}

// New creates the model for running plan on session. The session must deliver
// its events to Observe. Quitting cancels the context passed to the session.
func New(
	ctx context.Context,
	session Session,
	plan models.Plan,
	opts ...Option,
) *Model {
	ctx, cancel := context.WithCancel(ctx)

	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		session:  session,
		plan:     plan,
		events:   make(chan practice.Event),
		tags:     map[uint64]string{},
		styles:   newStyles(true),
		keys:     defaultKeymap,
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Observe hands an engine event to the screen. It blocks until the event is
// received or the screen has quit.
func (m *Model) Observe(ev practice.Event) {
	select {
	case m.events <- ev:
	case <-m.ctx.Done():
	}
}

// Err returns the error that stopped the session, if any. A session the
// user quit returns context.Canceled.
func (m *Model) Err() error {
	return m.err
}

// Finished reports whether the session ran to completion or was ended with
// the end key.
func (m *Model) Finished() bool {
	return m.finished
}

// SessionID returns the id of the recorded session.
func (m *Model) SessionID() uint64 {
	return m.snap.Session.ID
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.run(), m.waitForEvent())
}

func (m *Model) run() tea.Cmd {
	return func() tea.Msg {
		return runDoneMsg{err: m.session.Run(m.ctx, m.plan)}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-m.events:
			return eventMsg{event: ev}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) action(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: fn(m.ctx)}
	}
}

func (m *Model) alert(title, message string) tea.Cmd {
	if m.alerter == nil {
		return nil
	}

	return func() tea.Msg {
		_ = m.alerter.Alert(title, message)
		return nil
	}
}

func (m *Model) tagName(tagID uint64) string {
	if name, ok := m.tags[tagID]; ok {
		return name
	}

	return fmt.Sprintf("Category %d", tagID)
}

// handleEvent updates the screen from an engine event and alerts the user
// when a phase changes.
func (m *Model) handleEvent(ev practice.Event) tea.Cmd {
	slog.Debug(spew.Sdump(ev))

	m.snap = m.session.Snapshot()

	switch ev := ev.(type) {
	case practice.Tick:
		m.remaining = ev.Remaining

	case practice.ExerciseStarted:
		m.current = ev
		m.remaining = ev.Exercise.Duration()

	case practice.StateChanged:
		prev := m.phase
		m.phase = ev.State

		if ev.State == practice.Break {
			m.remaining = practice.BreakDuration
		}

		switch {
		case prev == practice.Drawing && ev.State == practice.Break:
			return m.alert(
				"Time's up",
				fmt.Sprintf(
					"Take a %d second break",
					int(practice.BreakDuration/time.Second),
				),
			)
		case prev == practice.Break && ev.State == practice.Drawing:
			return m.alert(
				"Break over",
				fmt.Sprintf(
					"Exercise %d of %d: %s",
					m.current.Index+1,
					m.current.Total,
					m.tagName(m.current.Exercise.TagID),
				),
			)
		case prev == practice.Drawing && ev.State == practice.Complete:
			return m.alert("Session complete", "Well done!")
		}

	case practice.Finished:
		m.finished = true

	case practice.Failed:
		m.err = ev.Err
	}

	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.handleEvent(msg.event), m.waitForEvent())

	case runDoneMsg:
		if msg.err != nil && m.err == nil {
			m.err = msg.err
		}

		// the Finished event may still be queued behind this message
		m.snap = m.session.Snapshot()
		if m.snap.State == practice.Complete {
			m.finished = true
		}

		m.cancel()

		return m, tea.Quit

	case actionMsg:
		if msg.err != nil &&
			!errors.Is(msg.err, practice.ErrNotDrawing) &&
			!errors.Is(msg.err, practice.ErrNotReady) &&
			!errors.Is(msg.err, context.Canceled) {
			m.err = msg.err
		}

		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.togglePause):
			return m, m.action(m.session.TogglePause)

		case key.Matches(msg, m.keys.skip):
			return m, m.action(m.session.Skip)

		case key.Matches(msg, m.keys.end):
			return m, m.action(m.session.End)

		case key.Matches(msg, m.keys.quit):
			m.quitting = true
			m.cancel()

			return m, nil
		}

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}

		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	return m, nil
}
