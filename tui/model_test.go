package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/practice"
)

type fakeSession struct {
	actionErr error
	calls     []string
	snap      practice.Snapshot
	mu        sync.Mutex
}

func (f *fakeSession) Run(ctx context.Context, _ models.Plan) error {
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeSession) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, name)

	return f.actionErr
}

func (f *fakeSession) Skip(context.Context) error        { return f.call("skip") }
func (f *fakeSession) TogglePause(context.Context) error { return f.call("pause") }
func (f *fakeSession) End(context.Context) error         { return f.call("end") }

func (f *fakeSession) Snapshot() practice.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.snap
}

type fakeAlerter struct {
	alerts []string
}

func (f *fakeAlerter) Alert(title, message string) error {
	f.alerts = append(f.alerts, title+": "+message)
	return nil
}

func newTestModel(t *testing.T) (*Model, *fakeSession, *fakeAlerter) {
	t.Helper()

	session := &fakeSession{}
	alerter := &fakeAlerter{}

	m := New(
		context.Background(),
		session,
		models.Plan{ID: 1, Name: "Warm up"},
		WithAlerter(alerter),
		WithTagNames(map[uint64]string{7: "Gesture"}),
	)

	t.Cleanup(m.cancel)

	return m, session, alerter
}

func keyPress(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send handles an engine event and runs the alert command it returns.
func send(m *Model, ev practice.Event) {
	if cmd := m.handleEvent(ev); cmd != nil {
		cmd()
	}
}

func TestKeysDispatchActions(t *testing.T) {
	m, session, _ := newTestModel(t)

	for _, k := range []string{" ", "p", "s", "n", "e"} {
		_, cmd := m.Update(keyPress(k))
		require.NotNil(t, cmd, k)

		msg := cmd()
		_, ok := msg.(actionMsg)
		require.True(t, ok, k)
	}

	assert.Equal(
		t,
		[]string{"pause", "pause", "skip", "skip", "end"},
		session.calls,
	)
}

func TestIgnoredActionErrors(t *testing.T) {
	m, _, _ := newTestModel(t)

	for _, err := range []error{
		practice.ErrNotDrawing,
		practice.ErrNotReady,
		context.Canceled,
	} {
		m.Update(actionMsg{err: err})
		assert.NoError(t, m.Err())
	}

	errDisk := errors.New("disk full")
	m.Update(actionMsg{err: errDisk})
	assert.ErrorIs(t, m.Err(), errDisk)
}

func TestQuitCancelsSession(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(keyPress("q"))
	assert.Nil(t, cmd)
	assert.ErrorIs(t, m.ctx.Err(), context.Canceled)
	assert.Empty(t, m.View())

	_, cmd = m.Update(runDoneMsg{err: context.Canceled})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, m.Finished())
}

func TestPhaseAlerts(t *testing.T) {
	m, session, alerter := newTestModel(t)

	ex := models.Exercise{ID: 3, TagID: 7, DurationSeconds: 60}

	send(m, practice.StateChanged{State: practice.Initializing})
	send(m, practice.ExerciseStarted{Exercise: ex, Index: 0, Total: 2})
	send(m, practice.StateChanged{State: practice.Drawing})
	assert.Empty(t, alerter.alerts)

	send(m, practice.StateChanged{State: practice.Break})
	send(m, practice.ExerciseStarted{Exercise: ex, Index: 1, Total: 2})
	send(m, practice.StateChanged{State: practice.Drawing})
	send(m, practice.StateChanged{State: practice.Complete})

	session.snap = practice.Snapshot{
		State:   practice.Complete,
		Session: models.Session{ID: 42, Completed: true},
	}
	send(m, practice.Finished{SessionID: 42})

	assert.Equal(t, []string{
		"Time's up: Take a 30 second break",
		"Break over: Exercise 2 of 2: Gesture",
		"Session complete: Well done!",
	}, alerter.alerts)

	assert.True(t, m.Finished())
	assert.Equal(t, uint64(42), m.SessionID())
}

func TestRunDoneBeforeFinishedEvent(t *testing.T) {
	m, session, _ := newTestModel(t)

	session.snap = practice.Snapshot{
		State:   practice.Complete,
		Session: models.Session{ID: 42, Completed: true},
	}

	_, cmd := m.Update(runDoneMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	assert.True(t, m.Finished())
	assert.Equal(t, uint64(42), m.SessionID())
	assert.NoError(t, m.Err())
}

func TestDrawingView(t *testing.T) {
	m, session, _ := newTestModel(t)

	ex := models.Exercise{ID: 3, TagID: 7, DurationSeconds: 90}
	session.snap = practice.Snapshot{
		State:         practice.Drawing,
		Exercise:      &ex,
		Photo:         &models.Photo{ID: 5, FilePath: "/library/pose.jpg"},
		ExerciseIndex: 0,
		ExerciseCount: 3,
		Paused:        true,
	}

	send(m, practice.ExerciseStarted{Exercise: ex, Total: 3})
	send(m, practice.Tick{State: practice.Drawing, Remaining: 75 * time.Second})

	view := m.View()
	assert.Contains(t, view, "Gesture")
	assert.Contains(t, view, "Exercise 1 of 3")
	assert.Contains(t, view, "[Paused]")
	assert.Contains(t, view, "/library/pose.jpg")
	assert.Contains(t, view, "01:15")
}

func TestEmptyCategoryView(t *testing.T) {
	m, session, _ := newTestModel(t)

	ex := models.Exercise{ID: 3, TagID: 9, DurationSeconds: 30}
	session.snap = practice.Snapshot{
		State:         practice.Drawing,
		Exercise:      &ex,
		ExerciseCount: 1,
	}

	send(m, practice.ExerciseStarted{Exercise: ex, Total: 1})

	view := m.View()
	assert.Contains(t, view, "Category 9")
	assert.Contains(t, view, "No reference photos in this category")
}

func TestBreakView(t *testing.T) {
	m, session, _ := newTestModel(t)

	next := models.Exercise{ID: 4, TagID: 7, DurationSeconds: 120}
	session.snap = practice.Snapshot{
		State:          practice.Break,
		Exercise:       &next,
		ExerciseIndex:  1,
		ExerciseCount:  2,
		BreakRemaining: 25,
	}

	send(m, practice.Tick{State: practice.Break, BreakRemaining: 25})

	view := m.View()
	assert.Contains(t, view, "Break")
	assert.Contains(t, view, "Up next: Gesture for 2m")
	assert.Contains(t, view, "00:25")
}

func TestFailureShowsError(t *testing.T) {
	m, _, _ := newTestModel(t)

	errDisk := errors.New("disk full")
	send(m, practice.Failed{Err: errDisk})

	_, cmd := m.Update(runDoneMsg{err: errDisk})
	require.NotNil(t, cmd)

	assert.ErrorIs(t, m.Err(), errDisk)
	assert.Contains(t, m.View(), "disk full")
}

func TestObserveStopsAfterQuit(t *testing.T) {
	m, _, _ := newTestModel(t)

	go m.Observe(practice.PauseChanged{Paused: true})

	msg := m.waitForEvent()()
	assert.Equal(t, eventMsg{event: practice.PauseChanged{Paused: true}}, msg)

	m.Update(keyPress("q"))

	done := make(chan struct{})

	go func() {
		m.Observe(practice.PauseChanged{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("observer blocked after quitting")
	}

	assert.Nil(t, m.waitForEvent()())
}
