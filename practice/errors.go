package practice

import "github.com/ayoisaiah/sketch/internal/apperr"

var (
	// ErrNotReady is returned for user actions sent before the session has
	// been created.
	ErrNotReady = &apperr.Error{
		Message: "the session is still starting",
	}

	// ErrNotDrawing is returned when skip or pause is requested outside a
	// drawing exercise.
	ErrNotDrawing = &apperr.Error{
		Message: "this action is only available during a drawing exercise",
	}

	// ErrSessionOver is returned for actions sent after the session stopped.
	ErrSessionOver = &apperr.Error{
		Message: "the session is no longer running",
	}

	errAlreadyStarted = &apperr.Error{
		Message: "a practice engine can only run one session",
	}

	errStartSession = &apperr.Error{
		Message: "unable to start session for plan %d",
	}

	errRecordResult = &apperr.Error{
		Message: "unable to record result for exercise %d",
	}

	errCompleteSession = &apperr.Error{
		Message: "unable to complete session %d",
	}

	errPickPhoto = &apperr.Error{
		Message: "unable to select a reference photo for category %d",
	}
)
