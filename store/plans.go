package store

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/sketch/internal/models"
)

// buildExercises validates the inputs and assigns ids and sort orders in
// input order.
func buildExercises(
	tx *bolt.Tx,
	planID uint64,
	inputs []models.ExerciseInput,
) ([]models.Exercise, error) {
	exercises := make([]models.Exercise, 0, len(inputs))

	for i, in := range inputs {
		if in.DurationSeconds < 1 {
			return nil, errExerciseDuration.Fmt(i + 1)
		}

		if tx.Bucket([]byte(tagBucket)).Get(itob(in.TagID)) == nil {
			return nil, notFound("tag", in.TagID)
		}

		id, err := nextID(tx, exerciseBucket)
		if err != nil {
			return nil, err
		}

		exercises = append(exercises, models.Exercise{
			ID:              id,
			PlanID:          planID,
			TagID:           in.TagID,
			DurationSeconds: in.DurationSeconds,
			SortOrder:       i,
		})
	}

	return exercises, nil
}

// CreatePlan stores a new plan. Exercises run in the order given.
func (c *Client) CreatePlan(
	ctx context.Context,
	name string,
	exercises []models.ExerciseInput,
) (*models.Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errEmptyName.Fmt("plan")
	}

	plan := &models.Plan{
		Name:      name,
		CreatedAt: c.now(),
	}

	err := c.update(ctx, func(tx *bolt.Tx) error {
		id, err := nextID(tx, planBucket)
		if err != nil {
			return err
		}

		plan.ID = id

		plan.Exercises, err = buildExercises(tx, id, exercises)
		if err != nil {
			return err
		}

		return put(tx, planBucket, id, plan)
	})
	if err != nil {
		return nil, err
	}

	c.log.Info(
		"plan created",
		slog.Uint64("plan_id", plan.ID),
		slog.Int("exercises", len(plan.Exercises)),
	)

	return plan, nil
}

// UpdatePlan renames a plan and replaces its exercises.
func (c *Client) UpdatePlan(
	ctx context.Context,
	id uint64,
	name string,
	exercises []models.ExerciseInput,
) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errEmptyName.Fmt("plan")
	}

	return c.update(ctx, func(tx *bolt.Tx) error {
		var plan models.Plan

		ok, err := get(tx, planBucket, id, &plan)
		if err != nil {
			return err
		}

		if !ok {
			return notFound("plan", id)
		}

		plan.Name = name

		plan.Exercises, err = buildExercises(tx, id, exercises)
		if err != nil {
			return err
		}

		return put(tx, planBucket, id, &plan)
	})
}

// DeletePlan removes a plan. Sessions run from it are kept.
func (c *Client) DeletePlan(ctx context.Context, id uint64) error {
	return c.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(planBucket))

		if b.Get(itob(id)) == nil {
			return notFound("plan", id)
		}

		return b.Delete(itob(id))
	})
}

// GetPlan returns a plan with its exercises ordered by sort order.
func (c *Client) GetPlan(ctx context.Context, id uint64) (*models.Plan, error) {
	var plan models.Plan

	err := c.view(ctx, func(tx *bolt.Tx) error {
		ok, err := get(tx, planBucket, id, &plan)
		if err != nil {
			return err
		}

		if !ok {
			return notFound("plan", id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sortExercises(plan.Exercises)

	return &plan, nil
}

// ListPlans returns all plans, newest first.
func (c *Client) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan

	err := c.view(ctx, func(tx *bolt.Tx) error {
		var err error

		plans, err = all[models.Plan](tx, planBucket)

		return err
	})
	if err != nil {
		return nil, err
	}

	for i := range plans {
		sortExercises(plans[i].Exercises)
	}

	slices.SortStableFunc(plans, func(a, b models.Plan) int {
		return cmp.Or(
			b.CreatedAt.Compare(a.CreatedAt),
			cmp.Compare(b.ID, a.ID),
		)
	})

	return plans, nil
}

// PlanExercises returns the exercises of a plan ordered by sort order.
func (c *Client) PlanExercises(
	ctx context.Context,
	planID uint64,
) ([]models.Exercise, error) {
	plan, err := c.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	return plan.Exercises, nil
}

func sortExercises(exercises []models.Exercise) {
	slices.SortStableFunc(exercises, func(a, b models.Exercise) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
}
