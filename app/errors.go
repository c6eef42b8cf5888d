package app

import "github.com/ayoisaiah/sketch/internal/apperr"

var (
	errMissingArg = &apperr.Error{
		Message: "missing %s argument",
	}

	errInvalidID = &apperr.Error{
		Message: "invalid %s %q: expected a positive integer",
	}

	errNoPlans = &apperr.Error{
		Message: "no session plans found: create one with 'sketch plan create'",
	}

	errInvalidExercise = &apperr.Error{
		Message: "invalid exercise %q: expected TAG:SECONDS",
	}

	errNoExercises = &apperr.Error{
		Message: "a plan needs at least one exercise",
	}

	errNoImages = &apperr.Error{
		Message: "no image files found in the provided paths",
	}

	errUnknownArtist = &apperr.Error{
		Message: "no artist named %q",
	}

	errInvalidDate = &apperr.Error{
		Message: "unable to parse %q as a date",
	}

	errSessionCmd = &apperr.Error{
		Message: "unable to parse session command",
	}

	errNoTags = &apperr.Error{
		Message: "no categories found: create one with 'sketch tag add'",
	}

	errEmptyPlanName = &apperr.Error{
		Message: "plan name cannot be empty",
	}

	errForm = &apperr.Error{
		Message: "form interaction failed",
	}

	errNothingToEdit = &apperr.Error{
		Message: "nothing to change: pass --name or --exercise",
	}
)
