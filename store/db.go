package store

import (
	"context"

	"github.com/ayoisaiah/sketch/internal/models"
)

// DB is the database storage interface.
type DB interface {
	// StartSession creates an uncompleted session for planID
	StartSession(ctx context.Context, planID uint64) (uint64, error)
	// RecordResult stores one presentation of a photo during a session
	RecordResult(ctx context.Context, in models.ResultInput) (uint64, error)
	// CompleteSession marks a session complete. The completion time is only
	// written by the first call
	CompleteSession(ctx context.Context, sessionID uint64) error
	ListSessions(ctx context.Context, completedOnly bool) ([]models.Session, error)
	GetSession(ctx context.Context, id uint64) (*models.SessionDetail, error)

	CreatePlan(
		ctx context.Context,
		name string,
		exercises []models.ExerciseInput,
	) (*models.Plan, error)
	UpdatePlan(
		ctx context.Context,
		id uint64,
		name string,
		exercises []models.ExerciseInput,
	) error
	DeletePlan(ctx context.Context, id uint64) error
	GetPlan(ctx context.Context, id uint64) (*models.Plan, error)
	ListPlans(ctx context.Context) ([]models.Plan, error)
	// PlanExercises returns the exercises of a plan ordered by sort order
	PlanExercises(ctx context.Context, planID uint64) ([]models.Exercise, error)

	CreateTag(ctx context.Context, name string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.TagSummary, error)
	FindTag(ctx context.Context, name string) (*models.Tag, error)

	AddPhoto(
		ctx context.Context,
		filePath, originalName string,
		tagIDs []uint64,
	) (*models.Photo, error)
	TagPhoto(ctx context.Context, photoID, tagID uint64) error
	UntagPhoto(ctx context.Context, photoID, tagID uint64) error
	// DeletePhoto removes a photo and returns the record so the caller can
	// remove the file
	DeletePhoto(ctx context.Context, id uint64) (*models.Photo, error)
	ListPhotos(ctx context.Context, tagID uint64) ([]models.Photo, error)
	PhotosByTag(ctx context.Context, tagID uint64) ([]models.Photo, error)

	AddArtist(ctx context.Context, name string) (*models.Artist, error)
	UpdateArtist(ctx context.Context, id uint64, name string) error
	// DeleteArtist removes an artist and unlinks their drawings
	DeleteArtist(ctx context.Context, id uint64) error
	ListArtists(ctx context.Context) ([]models.Artist, error)
	// AttachDrawing links a drawing to a session result
	AttachDrawing(ctx context.Context, d models.Drawing) (*models.Drawing, error)
	// AddDrawing stores a drawing that is not tied to a session
	AddDrawing(ctx context.Context, d models.Drawing) (*models.Drawing, error)
	ListDrawings(
		ctx context.Context,
		filter models.DrawingFilter,
	) ([]models.DrawingDetail, error)

	// Close ends the database connection
	Close() error
}
