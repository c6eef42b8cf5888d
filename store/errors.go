package store

import (
	"github.com/ayoisaiah/sketch/internal/apperr"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = &apperr.Error{
	Message: "%s %d not found",
}

var (
	errInstanceRunning = &apperr.Error{
		Message: "is sketch already running? Only one instance can be active at a time",
	}

	errOpenDB = &apperr.Error{
		Message: "unable to open database at %s",
	}

	errSchemaTooNew = &apperr.Error{
		Message: "database schema version %d is newer than this version of sketch supports (%d)",
	}

	errEmptyName = &apperr.Error{
		Message: "%s name cannot be empty",
	}

	errDuplicateTag = &apperr.Error{
		Message: "a tag named %q already exists",
	}

	errExerciseDuration = &apperr.Error{
		Message: "exercise %d: duration must be at least one second",
	}

	errSessionCompleted = &apperr.Error{
		Message: "session %d is already complete",
	}

	errDrawingExists = &apperr.Error{
		Message: "result %d already has a drawing attached",
	}

	errNoResult = &apperr.Error{
		Message: "a drawing must name the result it was drawn for",
	}

	errDrawingDuration = &apperr.Error{
		Message: "drawing duration cannot be negative",
	}

	errUnknownTag = &apperr.Error{
		Message: "no tag named %q",
	}
)

func notFound(kind string, id uint64) error {
	return ErrNotFound.Fmt(kind, id)
}
