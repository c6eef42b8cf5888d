// Package practice runs timed drawing sessions: it walks through the
// exercises of a plan, shows a random reference photo for each one, inserts
// breaks between exercises and records what was presented
package practice

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/ayoisaiah/sketch/countdown"
	"github.com/ayoisaiah/sketch/internal/models"
)

// BreakDuration is the pause inserted between consecutive exercises.
const BreakDuration = 30 * time.Second

// Timer is the countdown driving each phase of the session.
type Timer interface {
	Start(d time.Duration)
	Pause()
	Resume()
	Stop()
	Paused() bool
	Events() <-chan countdown.Event
}

// Picker selects a reference photo for a category.
type Picker interface {
	Pick(ctx context.Context, tagID uint64, exclude *uint64) (*models.Photo, error)
}

// Recorder persists the session history.
type Recorder interface {
	StartSession(ctx context.Context, planID uint64) (uint64, error)
	RecordResult(ctx context.Context, in models.ResultInput) (uint64, error)
	CompleteSession(ctx context.Context, sessionID uint64) error
}

type actionKind int

const (
	actionSkip actionKind = iota
	actionTogglePause
	actionEnd
)

type request struct {
	reply chan error
	kind  actionKind
}

// Engine is the state machine for a single practice session. All session
// state is owned by the goroutine executing Run; user actions are delivered to
// it as messages so they never interleave with a transition in progress.
type Engine struct {
	picker   Picker
	recorder Recorder
	timer    Timer
	observer func(Event)
	log      *slog.Logger
	now      func() time.Time

	actions chan request
	done    chan struct{}

	err            error
	photo          *models.Photo
	session        models.Session
	exercises      []models.Exercise
	index          int
	nextSortOrder  int
	progress       float64
	breakRemaining int
	mu             sync.Mutex
	state          State
	paused         bool
	started        bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers fn to receive session events. fn is called on the
// session goroutine and must not call back into the engine's action methods.
func WithObserver(fn func(Event)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock replaces the clock used for in-memory timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine for one session. The timer belongs to the engine and
// is stopped when the session ends.
func New(
	picker Picker,
	recorder Recorder,
	timer Timer,
	opts ...Option,
) *Engine {
	e := &Engine{
		picker:   picker,
		recorder: recorder,
		timer:    timer,
		log:      slog.Default(),
		now:      time.Now,
		actions:  make(chan request),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run starts a session for plan and blocks until it is complete, ctx is
// cancelled or a persistence call fails. A cancelled session is left
// uncompleted.
func (e *Engine) Run(ctx context.Context, plan models.Plan) error {
	e.mu.Lock()

	if e.started {
		e.mu.Unlock()
		return errAlreadyStarted
	}

	e.started = true
	e.exercises = slices.Clone(plan.Exercises)
	e.index = 0
	e.nextSortOrder = 0
	e.mu.Unlock()

	defer close(e.done)
	defer e.timer.Stop()

	slices.SortStableFunc(e.exercises, func(a, b models.Exercise) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	e.setState(Initializing)

	id, err := e.recorder.StartSession(ctx, plan.ID)
	if err != nil {
		return e.fail(errStartSession.Fmt(plan.ID).Wrap(err))
	}

	e.mu.Lock()
	e.session = models.Session{
		ID:        id,
		PlanID:    plan.ID,
		StartedAt: e.now(),
	}
	e.mu.Unlock()

	e.log.Info(
		"practice session started",
		slog.Uint64("session_id", id),
		slog.Uint64("plan_id", plan.ID),
		slog.Int("exercises", len(e.exercises)),
	)

	if err := e.startExercise(ctx); err != nil {
		return e.fail(err)
	}

	for e.state != Complete {
		select {
		case <-ctx.Done():
			e.log.Info(
				"practice session abandoned",
				slog.Uint64("session_id", id),
			)

			return ctx.Err()

		case ev := <-e.timer.Events():
			err = e.handleTimer(ctx, ev)

		case req := <-e.actions:
			err = e.apply(ctx, req.kind)

			req.reply <- err

			if errors.Is(err, ErrNotDrawing) {
				err = nil
			}
		}

		if err != nil {
			return e.fail(err)
		}
	}

	return nil
}

// Skip records the current photo as skipped and shows another photo from the
// same category. The exercise timer is unaffected.
func (e *Engine) Skip(ctx context.Context) error {
	return e.send(ctx, actionSkip)
}

// TogglePause pauses or resumes the drawing timer.
func (e *Engine) TogglePause(ctx context.Context) error {
	return e.send(ctx, actionTogglePause)
}

// End finishes the session early. Exercises that were never presented get no
// result. Ending a session that is already complete does nothing.
func (e *Engine) End(ctx context.Context) error {
	return e.send(ctx, actionEnd)
}

// Done is closed when Run returns.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Err returns the failure that ended the session, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.err
}

// Snapshot returns a copy of the current engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		State:          e.state,
		Session:        e.session,
		ExerciseIndex:  e.index,
		ExerciseCount:  len(e.exercises),
		Progress:       e.progress,
		BreakRemaining: e.breakRemaining,
		Paused:         e.paused,
	}

	s.Session.Results = slices.Clone(e.session.Results)

	if e.photo != nil {
		photo := *e.photo
		s.Photo = &photo
	}

	if e.index < len(e.exercises) {
		ex := e.exercises[e.index]
		s.Exercise = &ex
	}

	return s
}

func (e *Engine) send(ctx context.Context, kind actionKind) error {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()

	switch state {
	case Idle, Initializing:
		return ErrNotReady
	case Complete:
		return e.afterCompletion(kind)
	case Drawing, Break:
	}

	req := request{
		kind:  kind,
		reply: make(chan error, 1),
	}

	select {
	case e.actions <- req:
	case <-e.done:
		return e.afterCompletion(kind)
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) afterCompletion(kind actionKind) error {
	e.mu.Lock()
	completed := e.session.Completed
	e.mu.Unlock()

	if kind == actionEnd && completed {
		return nil
	}

	return ErrSessionOver
}

func (e *Engine) apply(ctx context.Context, kind actionKind) error {
	switch kind {
	case actionSkip:
		return e.skip(ctx)
	case actionTogglePause:
		return e.togglePause()
	case actionEnd:
		if e.state == Complete {
			return nil
		}

		return e.endSession(ctx)
	}

	return nil
}

func (e *Engine) handleTimer(ctx context.Context, ev countdown.Event) error {
	if ev.Kind == countdown.Elapsed {
		return e.onElapsed(ctx)
	}

	e.onTick(ev.Remaining)

	return nil
}

func (e *Engine) onTick(remaining time.Duration) {
	e.mu.Lock()

	switch e.state {
	case Drawing:
		// a zero-length exercise keeps its previous progress
		d := e.exercises[e.index].Duration()
		if d > 0 {
			p := 1 - remaining.Seconds()/d.Seconds()
			e.progress = math.Min(math.Max(p, 0), 1)
		}
	case Break:
		e.breakRemaining = int(math.Ceil(remaining.Seconds()))
	default:
		e.mu.Unlock()
		return
	}

	tick := Tick{
		State:          e.state,
		Remaining:      remaining,
		Progress:       e.progress,
		BreakRemaining: e.breakRemaining,
	}
	e.mu.Unlock()

	e.emit(tick)
}

func (e *Engine) onElapsed(ctx context.Context) error {
	switch e.state {
	case Drawing:
		err := e.record(ctx, false)
		if err != nil {
			return err
		}

		e.mu.Lock()
		e.index++
		more := e.index < len(e.exercises)
		e.mu.Unlock()

		if !more {
			return e.endSession(ctx)
		}

		e.mu.Lock()
		e.breakRemaining = int(BreakDuration / time.Second)
		e.mu.Unlock()

		e.setState(Break)
		e.startTimer(BreakDuration)

		return nil

	case Break:
		return e.startExercise(ctx)

	case Idle, Initializing, Complete:
	}

	return nil
}

func (e *Engine) startExercise(ctx context.Context) error {
	if e.index >= len(e.exercises) {
		return e.endSession(ctx)
	}

	ex := e.exercises[e.index]

	photo, err := e.picker.Pick(ctx, ex.TagID, nil)
	if err != nil {
		return errPickPhoto.Fmt(ex.TagID).Wrap(err)
	}

	if photo == nil {
		e.log.Warn(
			"category has no reference photos",
			slog.Uint64("tag_id", ex.TagID),
			slog.Uint64("exercise_id", ex.ID),
		)
	}

	e.mu.Lock()
	e.photo = photo
	e.progress = 0
	e.mu.Unlock()

	e.emit(ExerciseStarted{
		Photo:    photo,
		Exercise: ex,
		Index:    e.index,
		Total:    len(e.exercises),
	})

	e.setState(Drawing)
	e.startTimer(ex.Duration())

	return nil
}

func (e *Engine) skip(ctx context.Context) error {
	if e.state != Drawing {
		return ErrNotDrawing
	}

	err := e.record(ctx, true)
	if err != nil {
		return err
	}

	ex := e.exercises[e.index]

	photo, err := e.picker.Pick(ctx, ex.TagID, photoID(e.photo))
	if err != nil {
		return errPickPhoto.Fmt(ex.TagID).Wrap(err)
	}

	e.mu.Lock()
	e.photo = photo
	e.mu.Unlock()

	e.emit(PhotoChanged{Photo: photo})

	return nil
}

func (e *Engine) togglePause() error {
	if e.state != Drawing {
		return ErrNotDrawing
	}

	if e.paused {
		e.timer.Resume()
	} else {
		e.timer.Pause()

		// the countdown has already run out and its elapsed event is pending
		if !e.timer.Paused() {
			return ErrNotDrawing
		}
	}

	e.mu.Lock()
	e.paused = !e.paused
	paused := e.paused
	e.mu.Unlock()

	e.emit(PauseChanged{Paused: paused})

	return nil
}

// record persists a result for the current exercise and photo.
func (e *Engine) record(ctx context.Context, skipped bool) error {
	ex := e.exercises[e.index]

	in := models.ResultInput{
		SessionID:  e.session.ID,
		ExerciseID: ex.ID,
		PhotoID:    photoID(e.photo),
		SortOrder:  e.nextSortOrder,
		Skipped:    skipped,
	}

	id, err := e.recorder.RecordResult(ctx, in)
	if err != nil {
		return errRecordResult.Fmt(ex.ID).Wrap(err)
	}

	result := models.Result{
		ID:         id,
		SessionID:  in.SessionID,
		ExerciseID: in.ExerciseID,
		PhotoID:    in.PhotoID,
		SortOrder:  in.SortOrder,
		Skipped:    in.Skipped,
	}

	e.mu.Lock()
	e.nextSortOrder++
	e.session.Results = append(e.session.Results, result)
	e.mu.Unlock()

	e.log.Debug(
		"exercise result recorded",
		slog.Uint64("session_id", result.SessionID),
		slog.Uint64("result_id", result.ID),
		slog.Int("sort_order", result.SortOrder),
		slog.Bool("skipped", result.Skipped),
	)

	e.emit(ResultRecorded{Result: result})

	return nil
}

func (e *Engine) endSession(ctx context.Context) error {
	e.timer.Stop()

	err := e.recorder.CompleteSession(ctx, e.session.ID)
	if err != nil {
		return errCompleteSession.Fmt(e.session.ID).Wrap(err)
	}

	now := e.now()

	e.mu.Lock()
	e.session.Completed = true
	e.session.CompletedAt = &now
	wasPaused := e.paused
	e.paused = false
	e.mu.Unlock()

	if wasPaused {
		e.emit(PauseChanged{Paused: false})
	}

	e.setState(Complete)

	e.log.Info(
		"practice session complete",
		slog.Uint64("session_id", e.session.ID),
		slog.Int("results", len(e.session.Results)),
	)

	e.emit(Finished{SessionID: e.session.ID})

	return nil
}

// startTimer restarts the countdown for a new phase, clearing any pause.
func (e *Engine) startTimer(d time.Duration) {
	e.mu.Lock()
	wasPaused := e.paused
	e.paused = false
	e.mu.Unlock()

	if wasPaused {
		e.emit(PauseChanged{Paused: false})
	}

	e.timer.Start(d)
}

func (e *Engine) fail(err error) error {
	e.timer.Stop()

	e.mu.Lock()
	e.err = err
	e.mu.Unlock()

	e.log.Error(
		"practice session failed",
		slog.Uint64("session_id", e.session.ID),
		slog.Any("error", err),
	)

	e.emit(Failed{Err: err})

	return err
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()

	e.emit(StateChanged{State: s})
}

func (e *Engine) emit(ev Event) {
	if e.observer != nil {
		e.observer(ev)
	}
}

func photoID(p *models.Photo) *uint64 {
	if p == nil {
		return nil
	}

	id := p.ID

	return &id
}
