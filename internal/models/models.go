// Package models defines the records shared by the store, the practice engine
// and the command-line interface
package models

import "time"

// Tag is a category used to group reference photos.
type Tag struct {
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	ID        uint64    `json:"id"`
}

// Photo is a reference photo in the library.
type Photo struct {
	ImportedAt       time.Time `json:"imported_at"`
	FilePath         string    `json:"file_path"`
	OriginalFileName string    `json:"original_file_name"`
	TagIDs           []uint64  `json:"tag_ids"`
	ID               uint64    `json:"id"`
}

// HasTag reports whether the photo is tagged with tagID.
func (p *Photo) HasTag(tagID uint64) bool {
	for _, id := range p.TagIDs {
		if id == tagID {
			return true
		}
	}

	return false
}

// Exercise is a single timed entry in a session plan.
type Exercise struct {
	ID              uint64 `json:"id"`
	PlanID          uint64 `json:"plan_id"`
	TagID           uint64 `json:"tag_id"`
	DurationSeconds int    `json:"duration_seconds"`
	SortOrder       int    `json:"sort_order"`
}

// Duration returns the configured length of the exercise.
func (e Exercise) Duration() time.Duration {
	return time.Duration(e.DurationSeconds) * time.Second
}

// ExerciseInput describes an exercise when creating or updating a plan.
type ExerciseInput struct {
	TagID           uint64 `json:"tag_id"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Plan is an ordered template of exercises.
type Plan struct {
	CreatedAt time.Time  `json:"created_at"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	ID        uint64     `json:"id"`
}

// TotalDuration is the sum of all exercise durations excluding breaks.
func (p *Plan) TotalDuration() time.Duration {
	var total time.Duration

	for i := range p.Exercises {
		total += p.Exercises[i].Duration()
	}

	return total
}

// Session is one timed run through a plan.
type Session struct {
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Results     []Result   `json:"results,omitempty"`
	ID          uint64     `json:"id"`
	PlanID      uint64     `json:"plan_id"`
	Completed   bool       `json:"completed"`
}

// Result records one presentation of a reference photo during a session.
// PhotoID is nil when the exercise category had no photos.
type Result struct {
	PhotoID    *uint64 `json:"photo_id"`
	ID         uint64  `json:"id"`
	SessionID  uint64  `json:"session_id"`
	ExerciseID uint64  `json:"exercise_id"`
	SortOrder  int     `json:"sort_order"`
	Skipped    bool    `json:"skipped"`
}

// ResultInput carries the fields needed to record a result.
type ResultInput struct {
	PhotoID    *uint64
	SessionID  uint64
	ExerciseID uint64
	SortOrder  int
	Skipped    bool
}

// Artist is a person a completed drawing can be attributed to.
type Artist struct {
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	ID        uint64    `json:"id"`
}

// Drawing is an uploaded drawing. ResultID links it to the session result it
// was drawn from and is nil for drawings added outside a session.
type Drawing struct {
	UploadedAt       time.Time `json:"uploaded_at"`
	DrawnAt          time.Time `json:"drawn_at"`
	ResultID         *uint64   `json:"result_id"`
	ArtistID         *uint64   `json:"artist_id,omitempty"`
	PhotoID          *uint64   `json:"photo_id,omitempty"`
	FilePath         string    `json:"file_path"`
	OriginalFileName string    `json:"original_file_name"`
	ID               uint64    `json:"id"`
	TagID            uint64    `json:"tag_id"`
	DurationSeconds  int       `json:"duration_seconds,omitempty"`
}

// DrawingFilter narrows the drawing gallery. Zero fields match everything.
type DrawingFilter struct {
	TagID    uint64
	ArtistID uint64
}

// TagSummary is a tag with the number of photos filed under it.
type TagSummary struct {
	Tag
	PhotoCount int `json:"photo_count"`
}

// ResultDetail is a result joined with the exercise, photo and drawing it
// refers to.
type ResultDetail struct {
	Result
	Drawing         *Drawing `json:"drawing,omitempty"`
	TagName         string   `json:"tag_name"`
	PhotoPath       string   `json:"photo_path,omitempty"`
	TagID           uint64   `json:"tag_id"`
	DurationSeconds int      `json:"duration_seconds"`
}

// SessionDetail is a session with its plan name and joined results.
type SessionDetail struct {
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	PlanName    string         `json:"plan_name"`
	Results     []ResultDetail `json:"results"`
	ID          uint64         `json:"id"`
	PlanID      uint64         `json:"plan_id"`
	Completed   bool           `json:"completed"`
}

// Presented returns the number of photos shown during the session. A skipped
// photo still counts.
func (s *SessionDetail) Presented() int {
	return len(s.Results)
}

// DrawingDetail is a drawing joined with the names of its category, reference
// photo and artist. SessionID is zero for drawings added outside a session.
type DrawingDetail struct {
	Drawing
	TagName    string `json:"tag_name"`
	PhotoPath  string `json:"photo_path,omitempty"`
	ArtistName string `json:"artist_name,omitempty"`
	SessionID  uint64 `json:"session_id,omitempty"`
}
