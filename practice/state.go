package practice

import (
	"time"

	"github.com/ayoisaiah/sketch/internal/models"
)

// State is the phase of a practice session.
type State int

const (
	Idle State = iota
	Initializing
	Drawing
	Break
	Complete
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Drawing:
		return "drawing"
	case Break:
		return "break"
	case Complete:
		return "complete"
	default:
		return "idle"
	}
}

// Event is a notification sent to the session observer.
type Event interface {
	event()
}

// StateChanged is sent on every state transition.
type StateChanged struct {
	State State
}

// ExerciseStarted is sent when an exercise begins. Photo is nil when the
// category has no photos.
type ExerciseStarted struct {
	Photo    *models.Photo
	Exercise models.Exercise
	Index    int
	Total    int
}

// PhotoChanged is sent when a skip replaces the displayed photo.
type PhotoChanged struct {
	Photo *models.Photo
}

// Tick reports countdown progress. Progress is only meaningful while drawing
// and BreakRemaining (whole seconds, rounded up) while on a break.
type Tick struct {
	Remaining      time.Duration
	Progress       float64
	BreakRemaining int
	State          State
}

// PauseChanged is sent when the drawing timer is paused or resumed.
type PauseChanged struct {
	Paused bool
}

// ResultRecorded is sent after an exercise result has been persisted.
type ResultRecorded struct {
	Result models.Result
}

// Finished is sent once the session has been marked complete.
type Finished struct {
	SessionID uint64
}

// Failed is sent when a persistence failure ends the session.
type Failed struct {
	Err error
}

func (StateChanged) event()    {}
func (ExerciseStarted) event() {}
func (PhotoChanged) event()    {}
func (Tick) event()            {}
func (PauseChanged) event()    {}
func (ResultRecorded) event()  {}
func (Finished) event()        {}
func (Failed) event()          {}

// Snapshot is a point-in-time copy of the engine state.
type Snapshot struct {
	Photo          *models.Photo
	Exercise       *models.Exercise
	Session        models.Session
	State          State
	ExerciseIndex  int
	ExerciseCount  int
	Progress       float64
	BreakRemaining int
	Paused         bool
}
