package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/sketch/internal/config"
	"github.com/ayoisaiah/sketch/internal/library"
	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/store"
)

// planDeleteAction deletes a plan after confirmation. Sessions recorded from
// the plan stay in the history.
func planDeleteAction(ctx *cli.Context) error {
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
			"The above plan will be deleted permanently. Press ENTER to proceed",
		)

		err = db.DeletePlan(ctx.Context, id)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Deleted plan %d", id)

		return nil
	})
}

// photoDeleteAction removes a photo from the library and deletes its file
// after confirmation.
func photoDeleteAction(ctx *cli.Context) error {
	id, err := parseID(ctx, 0, "photo id")
	if err != nil {
		return err
	}

	return withDB(func(db store.DB) error {
		photos, err := db.ListPhotos(ctx.Context, 0)
		if err != nil {
			return err
		}

		var target *models.Photo

		for i := range photos {
			if photos[i].ID == id {
				target = &photos[i]
				break
			}
		}

		if target == nil {
			return store.ErrNotFound.Fmt("photo", id)
		}

		names, err := tagNames(ctx.Context, db)
		if err != nil {
			return err
		}

		printPhotosTable(config.Stdout, []models.Photo{*target}, names)

		confirm(
			config.Stdout,
			config.Stdin,
			"The above photo will be deleted permanently. Press ENTER to proceed",
		)

		photo, err := db.DeletePhoto(ctx.Context, id)
		if err != nil {
			return err
		}

		err = library.Remove(photo.FilePath)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Deleted photo %d", id)

		return nil
	})
}
