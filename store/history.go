package store

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/sketch/internal/models"
)

// resultRecord is a result as stored. The category and duration of the
// exercise are copied in so history survives later plan edits.
type resultRecord struct {
	models.Result
	TagID           uint64 `json:"tag_id"`
	DurationSeconds int    `json:"duration_seconds"`
}

// StartSession creates an uncompleted session for a plan.
func (c *Client) StartSession(ctx context.Context, planID uint64) (uint64, error) {
	sess := models.Session{
		PlanID:    planID,
		StartedAt: c.now(),
	}

	err := c.update(ctx, func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(planBucket)).Get(itob(planID)) == nil {
			return notFound("plan", planID)
		}

		var err error

		sess.ID, err = nextID(tx, sessionBucket)
		if err != nil {
			return err
		}

		return put(tx, sessionBucket, sess.ID, &sess)
	})
	if err != nil {
		return 0, err
	}

	c.log.Debug(
		"session created",
		slog.Uint64("session_id", sess.ID),
		slog.Uint64("plan_id", planID),
	)

	return sess.ID, nil
}

// RecordResult stores one presentation of a photo. Completed sessions cannot
// receive new results.
func (c *Client) RecordResult(
	ctx context.Context,
	in models.ResultInput,
) (uint64, error) {
	rec := resultRecord{
		Result: models.Result{
			SessionID:  in.SessionID,
			ExerciseID: in.ExerciseID,
			PhotoID:    in.PhotoID,
			SortOrder:  in.SortOrder,
			Skipped:    in.Skipped,
		},
	}

	err := c.update(ctx, func(tx *bolt.Tx) error {
		var sess models.Session

		ok, err := get(tx, sessionBucket, in.SessionID, &sess)
		if err != nil {
			return err
		}

		if !ok {
			return notFound("session", in.SessionID)
		}

		if sess.Completed {
			return errSessionCompleted.Fmt(in.SessionID)
		}

		var plan models.Plan

		ok, err = get(tx, planBucket, sess.PlanID, &plan)
		if err != nil {
			return err
		}

		if ok {
			for _, ex := range plan.Exercises {
				if ex.ID == in.ExerciseID {
					rec.TagID = ex.TagID
					rec.DurationSeconds = ex.DurationSeconds
				}
			}
		}

		rec.ID, err = nextID(tx, resultBucket)
		if err != nil {
			return err
		}

		return put(tx, resultBucket, rec.ID, &rec)
	})
	if err != nil {
		return 0, err
	}

	return rec.ID, nil
}

// CompleteSession marks a session complete. Only the first call sets the
// completion time.
func (c *Client) CompleteSession(ctx context.Context, sessionID uint64) error {
	return c.update(ctx, func(tx *bolt.Tx) error {
		var sess models.Session

		ok, err := get(tx, sessionBucket, sessionID, &sess)
		if err != nil {
			return err
		}

		if !ok {
			return notFound("session", sessionID)
		}

		if sess.Completed {
			return nil
		}

		now := c.now()
		sess.Completed = true
		sess.CompletedAt = &now

		return put(tx, sessionBucket, sessionID, &sess)
	})
}

// ListSessions returns sessions newest first, each with its results in
// presentation order.
func (c *Client) ListSessions(
	ctx context.Context,
	completedOnly bool,
) ([]models.Session, error) {
	var (
		sessions []models.Session
		results  []resultRecord
	)

	err := c.view(ctx, func(tx *bolt.Tx) error {
		var err error

		sessions, err = all[models.Session](tx, sessionBucket)
		if err != nil {
			return err
		}

		results, err = all[resultRecord](tx, resultBucket)

		return err
	})
	if err != nil {
		return nil, err
	}

	if completedOnly {
		sessions = slices.DeleteFunc(sessions, func(s models.Session) bool {
			return !s.Completed
		})
	}

	bySession := make(map[uint64][]models.Result)

	for i := range results {
		r := results[i].Result
		bySession[r.SessionID] = append(bySession[r.SessionID], r)
	}

	for i := range sessions {
		sessions[i].Results = bySession[sessions[i].ID]

		slices.SortStableFunc(sessions[i].Results, func(a, b models.Result) int {
			return cmp.Compare(a.SortOrder, b.SortOrder)
		})
	}

	slices.SortStableFunc(sessions, func(a, b models.Session) int {
		return cmp.Or(
			b.StartedAt.Compare(a.StartedAt),
			cmp.Compare(b.ID, a.ID),
		)
	})

	return sessions, nil
}

// GetSession returns a session with its results joined to the category,
// photo and drawing of each one.
func (c *Client) GetSession(
	ctx context.Context,
	id uint64,
) (*models.SessionDetail, error) {
	var detail *models.SessionDetail

	err := c.view(ctx, func(tx *bolt.Tx) error {
		var sess models.Session

		ok, err := get(tx, sessionBucket, id, &sess)
		if err != nil {
			return err
		}

		if !ok {
			return notFound("session", id)
		}

		detail = &models.SessionDetail{
			ID:          sess.ID,
			PlanID:      sess.PlanID,
			StartedAt:   sess.StartedAt,
			CompletedAt: sess.CompletedAt,
			Completed:   sess.Completed,
			Results:     []models.ResultDetail{},
		}

		var plan models.Plan

		ok, err = get(tx, planBucket, sess.PlanID, &plan)
		if err != nil {
			return err
		}

		if ok {
			detail.PlanName = plan.Name
		}

		j, err := newJoiner(tx)
		if err != nil {
			return err
		}

		for _, rec := range j.results {
			if rec.SessionID != id {
				continue
			}

			detail.Results = append(detail.Results, j.result(rec))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(detail.Results, func(a, b models.ResultDetail) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	return detail, nil
}

// joiner holds lookup tables for resolving the references of results.
type joiner struct {
	results  map[uint64]resultRecord
	drawings map[uint64]models.Drawing // keyed by result id
	tags     map[uint64]string
	photos   map[uint64]string
}

func newJoiner(tx *bolt.Tx) (*joiner, error) {
	j := &joiner{
		results:  make(map[uint64]resultRecord),
		drawings: make(map[uint64]models.Drawing),
		tags:     make(map[uint64]string),
		photos:   make(map[uint64]string),
	}

	results, err := all[resultRecord](tx, resultBucket)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		j.results[r.ID] = r
	}

	drawings, err := all[models.Drawing](tx, drawingBucket)
	if err != nil {
		return nil, err
	}

	for _, d := range drawings {
		if d.ResultID != nil {
			j.drawings[*d.ResultID] = d
		}
	}

	tags, err := all[models.Tag](tx, tagBucket)
	if err != nil {
		return nil, err
	}

	for _, t := range tags {
		j.tags[t.ID] = t.Name
	}

	photos, err := all[models.Photo](tx, photoBucket)
	if err != nil {
		return nil, err
	}

	for _, p := range photos {
		j.photos[p.ID] = p.FilePath
	}

	return j, nil
}

func (j *joiner) result(rec resultRecord) models.ResultDetail {
	detail := models.ResultDetail{
		Result:          rec.Result,
		TagID:           rec.TagID,
		TagName:         j.tags[rec.TagID],
		DurationSeconds: rec.DurationSeconds,
	}

	if rec.PhotoID != nil {
		detail.PhotoPath = j.photos[*rec.PhotoID]
	}

	if d, ok := j.drawings[rec.ID]; ok {
		detail.Drawing = &d
	}

	return detail
}
