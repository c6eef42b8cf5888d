package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/sketch/internal/config"
	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/store"
)

// parseExercises resolves TAG:SECONDS pairs into exercise inputs. The tag
// part is matched against tag names case-insensitively.
func parseExercises(
	ctx context.Context,
	db store.DB,
	specs []string,
) ([]models.ExerciseInput, error) {
	exercises := make([]models.ExerciseInput, 0, len(specs))

	for _, spec := range specs {
		i := strings.LastIndex(spec, ":")
		if i <= 0 || i == len(spec)-1 {
			return nil, errInvalidExercise.Fmt(spec)
		}

		secs, err := strconv.Atoi(strings.TrimSpace(spec[i+1:]))
		if err != nil {
			return nil, errInvalidExercise.Fmt(spec).Wrap(err)
		}

		tag, err := db.FindTag(ctx, spec[:i])
		if err != nil {
			return nil, err
		}

		exercises = append(exercises, models.ExerciseInput{
			TagID:           tag.ID,
			DurationSeconds: secs,
		})
	}

	return exercises, nil
}

func createPlan(
	ctx context.Context,
	db store.DB,
	name string,
	specs []string,
) (*models.Plan, error) {
	exercises, err := parseExercises(ctx, db, specs)
	if err != nil {
		return nil, err
	}

	if len(exercises) == 0 {
		return nil, errNoExercises
	}

	return db.CreatePlan(ctx, name, exercises)
}

// planCreateAction handles the plan create command. Without --exercise, the
// plan is built in an interactive form.
func planCreateAction(ctx *cli.Context) error {
	return withDB(func(db store.DB) error {
		name := ctx.String("name")
		specs := ctx.StringSlice("exercise")

		var (
			plan *models.Plan
			err  error
		)

		if len(specs) == 0 {
			var in planInput

			in, err = promptPlan(ctx.Context, db, name)
			if err != nil {
				return err
			}

			plan, err = db.CreatePlan(ctx.Context, in.name, in.exercises)
		} else {
			plan, err = createPlan(ctx.Context, db, name, specs)
		}

		if err != nil {
			return err
		}

		pterm.Success.Printfln(
			"Created plan %d: %s (%d exercises)",
			plan.ID,
			plan.Name,
			len(plan.Exercises),
		)

		return nil
	})
}

// planListAction prints a table of all plans.
func planListAction(ctx *cli.Context) error {
	return withDB(func(db store.DB) error {
		plans, err := db.ListPlans(ctx.Context)
		if err != nil {
			return err
		}

		if len(plans) == 0 {
			pterm.Info.Println(noPlansMsg)
			return nil
		}

		names, err := tagNames(ctx.Context, db)
		if err != nil {
			return err
		}

		printPlansTable(config.Stdout, plans, names)

		return nil
	})
}
