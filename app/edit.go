package app

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/sketch/internal/config"
	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/store"
)

// confirm prints prompt and waits for the user to press ENTER.
func confirm(w io.Writer, r io.Reader, prompt string) {
	fmt.Fprint(w, pterm.Warning.Sprint(prompt))

	reader := bufio.NewReader(r)

	_, _ = reader.ReadString('\n')
}

// editPlan renames a plan and/or replaces its exercises. Fields that are not
// supplied keep their current value.
func editPlan(
	ctx context.Context,
	db store.DB,
	id uint64,
	name string,
	specs []string,
) (*models.Plan, error) {
	if name == "" && len(specs) == 0 {
		return nil, errNothingToEdit
	}

	plan, err := db.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = plan.Name
	}

	exercises := make([]models.ExerciseInput, len(plan.Exercises))
	for i := range plan.Exercises {
		exercises[i] = models.ExerciseInput{
			TagID:           plan.Exercises[i].TagID,
			DurationSeconds: plan.Exercises[i].DurationSeconds,
		}
	}

	if len(specs) > 0 {
		exercises, err = parseExercises(ctx, db, specs)
		if err != nil {
			return nil, err
		}
	}

	err = db.UpdatePlan(ctx, id, name, exercises)
	if err != nil {
		return nil, err
	}

	return db.GetPlan(ctx, id)
}

// planEditAction handles the plan edit command. The current plan is shown and
// the user confirms before it is changed.
func planEditAction(ctx *cli.Context) error {
	id, err := parseID(ctx, 0, "plan id")
	if err != nil {
		return err
	}

	return withDB(func(db store.DB) error {
		plan, err := db.GetPlan(ctx.Context, id)
		if err != nil {
			return err
		}

		names, err := tagNames(ctx.Context, db)
		if err != nil {
			return err
		}

		printPlansTable(config.Stdout, []models.Plan{*plan}, names)

		confirm(
			config.Stdout,
			config.Stdin,
			"The plan above will be updated. Press ENTER to proceed",
		)

		plan, err = editPlan(
			ctx.Context,
			db,
			id,
			ctx.String("name"),
			ctx.StringSlice("exercise"),
		)
		if err != nil {
			return err
		}

		printPlansTable(config.Stdout, []models.Plan{*plan}, names)

		return nil
	})
}
