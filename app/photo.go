package app

import (
	"context"
	"log/slog"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/sketch/internal/config"
	"github.com/ayoisaiah/sketch/internal/library"
	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/internal/pathutil"
	"github.com/ayoisaiah/sketch/store"
)

// findTags resolves tag names to ids.
func findTags(
	ctx context.Context,
	db store.DB,
	names []string,
) ([]uint64, error) {
	ids := make([]uint64, 0, len(names))

	for _, name := range names {
		tag, err := db.FindTag(ctx, name)
		if err != nil {
			return nil, err
		}

		ids = append(ids, tag.ID)
	}

	return ids, nil
}

// tagFilter resolves the optional --tag flag. Zero means no filter.
func tagFilter(ctx *cli.Context, db store.DB) (uint64, error) {
	name := ctx.String("tag")
	if name == "" {
		return 0, nil
	}

	tag, err := db.FindTag(ctx.Context, name)
	if err != nil {
		return 0, err
	}

	return tag.ID, nil
}

// importPhotos copies the images found in paths into dir and files them under
// the named tags. Directories are expanded one level deep.
func importPhotos(
	ctx context.Context,
	db store.DB,
	dir string,
	paths, tags []string,
) ([]models.Photo, error) {
	tagIDs, err := findTags(ctx, db, tags)
	if err != nil {
		return nil, err
	}

	files, err := library.Collect(paths)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, errNoImages
	}

	photos := make([]models.Photo, 0, len(files))

	for _, src := range files {
		f, err := library.Import(src, dir)
		if err != nil {
			return photos, err
		}

		photo, err := db.AddPhoto(ctx, f.Path, f.OriginalName, tagIDs)
		if err != nil {
			_ = library.Remove(f.Path)
			return photos, err
		}

		slog.DebugContext(
			ctx,
			"imported reference photo",
			slog.Uint64("photo_id", photo.ID),
			slog.String("source", src),
		)

		photos = append(photos, *photo)
	}

	return photos, nil
}

// tagAddAction creates a new category.
func tagAddAction(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return errMissingArg.Fmt("tag name")
	}

	return withDB(func(db store.DB) error {
		tag, err := db.CreateTag(ctx.Context, name)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Created tag %d: %s", tag.ID, tag.Name)

		return nil
	})
}

// tagListAction prints a table of categories.
func tagListAction(ctx *cli.Context) error {
	return withDB(func(db store.DB) error {
		tags, err := db.ListTags(ctx.Context)
		if err != nil {
			return err
		}

		if len(tags) == 0 {
			pterm.Info.Println(noTagsMsg)
			return nil
		}

		printTagsTable(config.Stdout, tags)

		return nil
	})
}

// photoAddAction imports images into the library.
func photoAddAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errMissingArg.Fmt("file")
	}

	return withDB(func(db store.DB) error {
		photos, err := importPhotos(
			ctx.Context,
			db,
			pathutil.LibraryDir(),
			ctx.Args().Slice(),
			ctx.StringSlice("tag"),
		)
		if len(photos) > 0 {
			pterm.Success.Printfln("Imported %d photos", len(photos))
		}

		return err
	})
}

// photoListAction prints a table of reference photos.
func photoListAction(ctx *cli.Context) error {
	return withDB(func(db store.DB) error {
		tagID, err := tagFilter(ctx, db)
		if err != nil {
			return err
		}

		photos, err := db.ListPhotos(ctx.Context, tagID)
		if err != nil {
			return err
		}

		if len(photos) == 0 {
			pterm.Info.Println(noPhotosMsg)
			return nil
		}

		names, err := tagNames(ctx.Context, db)
		if err != nil {
			return err
		}

		printPhotosTable(config.Stdout, photos, names)

		return nil
	})
}

// retag adds or removes a photo from a category.
func retag(ctx *cli.Context, add bool) error {
	id, err := parseID(ctx, 0, "photo id")
	if err != nil {
		return err
	}

	name := ctx.Args().Get(1)
	if name == "" {
		return errMissingArg.Fmt("tag")
	}

	return withDB(func(db store.DB) error {
		tag, err := db.FindTag(ctx.Context, name)
		if err != nil {
			return err
		}

		if add {
			err = db.TagPhoto(ctx.Context, id, tag.ID)
		} else {
			err = db.UntagPhoto(ctx.Context, id, tag.ID)
		}

		if err != nil {
			return err
		}

		pterm.Success.Printfln("Updated photo %d", id)

		return nil
	})
}

func photoTagAction(ctx *cli.Context) error {
	return retag(ctx, true)
}

func photoUntagAction(ctx *cli.Context) error {
	return retag(ctx, false)
}
