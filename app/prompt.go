package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/internal/timeutil"
	"github.com/ayoisaiah/sketch/store"
)

var durationChoices = []int{30, 60, 120, 300, 600, 900}

type planInput struct {
	name      string
	exercises []models.ExerciseInput
}

// promptPlan asks for a plan name and its exercises one at a time.
func promptPlan(
	ctx context.Context,
	db store.DB,
	name string,
) (planInput, error) {
	in := planInput{name: name}

	tags, err := db.ListTags(ctx)
	if err != nil {
		return in, err
	}

	if len(tags) == 0 {
		return in, errNoTags
	}

	tagOpts := make([]huh.Option[uint64], len(tags))
	for i := range tags {
		label := fmt.Sprintf("%s (%d photos)", tags[i].Name, tags[i].PhotoCount)
		tagOpts[i] = huh.NewOption(label, tags[i].ID)
	}

	durationOpts := make([]huh.Option[int], len(durationChoices))
	for i, secs := range durationChoices {
		durationOpts[i] = huh.NewOption(timeutil.Seconds(secs), secs)
	}

	if strings.TrimSpace(in.name) == "" {
		err = huh.NewInput().
			Title("Plan name").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errEmptyPlanName
				}

				return nil
			}).
			Value(&in.name).
			Run()
		if err != nil {
			return in, errForm.Wrap(err)
		}
	}

	for more := true; more; {
		var ex models.ExerciseInput

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[uint64]().
					Title(fmt.Sprintf("Exercise %d category", len(in.exercises)+1)).
					Options(tagOpts...).
					Value(&ex.TagID),
				huh.NewSelect[int]().
					Title("Duration").
					Options(durationOpts...).
					Value(&ex.DurationSeconds),
				huh.NewConfirm().
					Title("Add another exercise?").
					Value(&more),
			),
		)

		err = form.Run()
		if err != nil {
			return in, errForm.Wrap(err)
		}

		in.exercises = append(in.exercises, ex)
	}

	return in, nil
}
