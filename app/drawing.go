package app

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/sketch/internal/config"
	"github.com/ayoisaiah/sketch/internal/library"
	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/internal/pathutil"
	"github.com/ayoisaiah/sketch/internal/timeutil"
	"github.com/ayoisaiah/sketch/store"
)

// findArtist returns the id of the artist called name.
func findArtist(ctx context.Context, db store.DB, name string) (uint64, error) {
	artists, err := db.ListArtists(ctx)
	if err != nil {
		return 0, err
	}

	name = strings.TrimSpace(name)

	for i := range artists {
		if strings.EqualFold(artists[i].Name, name) {
			return artists[i].ID, nil
		}
	}

	return 0, errUnknownArtist.Fmt(name)
}

// saveDrawing copies src into dir and stores it with save. The copy is
// removed again if save fails.
func saveDrawing(
	dir, src string,
	d models.Drawing,
	save func(models.Drawing) (*models.Drawing, error),
) (*models.Drawing, error) {
	f, err := library.Import(src, dir)
	if err != nil {
		return nil, err
	}

	d.FilePath = f.Path
	d.OriginalFileName = f.OriginalName

	drawing, err := save(d)
	if err != nil {
		_ = library.Remove(f.Path)
		return nil, err
	}

	return drawing, nil
}

// artistID resolves an optional artist name.
func artistID(ctx context.Context, db store.DB, name string) (*uint64, error) {
	if name == "" {
		return nil, nil
	}

	id, err := findArtist(ctx, db, name)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

// attachDrawing copies src into dir and links it to a session result.
func attachDrawing(
	ctx context.Context,
	db store.DB,
	dir string,
	resultID uint64,
	src, artist string,
) (*models.Drawing, error) {
	d := models.Drawing{ResultID: &resultID}

	var err error

	d.ArtistID, err = artistID(ctx, db, artist)
	if err != nil {
		return nil, err
	}

	return saveDrawing(dir, src, d, func(d models.Drawing) (*models.Drawing, error) {
		return db.AttachDrawing(ctx, d)
	})
}

// drawingInput describes a drawing made outside a session.
type drawingInput struct {
	tag      string
	artist   string
	drawn    string
	photoID  uint64
	duration int
}

// addDrawing copies src into dir and records it as a drawing that is not
// linked to any session.
func addDrawing(
	ctx context.Context,
	db store.DB,
	dir, src string,
	in drawingInput,
	now time.Time,
) (*models.Drawing, error) {
	tag, err := db.FindTag(ctx, in.tag)
	if err != nil {
		return nil, err
	}

	d := models.Drawing{
		TagID:           tag.ID,
		DurationSeconds: in.duration,
	}

	d.ArtistID, err = artistID(ctx, db, in.artist)
	if err != nil {
		return nil, err
	}

	if in.photoID != 0 {
		d.PhotoID = &in.photoID
	}

	if in.drawn != "" {
		d.DrawnAt, err = timeutil.FromStr(in.drawn, now)
		if err != nil {
			return nil, errInvalidDate.Fmt(in.drawn).Wrap(err)
		}
	}

	return saveDrawing(dir, src, d, func(d models.Drawing) (*models.Drawing, error) {
		return db.AddDrawing(ctx, d)
	})
}

// drawingAttachAction handles the drawing attach command.
func drawingAttachAction(ctx *cli.Context) error {
	resultID, err := parseID(ctx, 0, "result id")
	if err != nil {
		return err
	}

	src := ctx.Args().Get(1)
	if src == "" {
		return errMissingArg.Fmt("file")
	}

	return withDB(func(db store.DB) error {
		drawing, err := attachDrawing(
			ctx.Context,
			db,
			pathutil.DrawingsDir(),
			resultID,
			src,
			ctx.String("artist"),
		)
		if err != nil {
			return err
		}

		pterm.Success.Printfln(
			"Attached drawing %d to result %d",
			drawing.ID,
			resultID,
		)

		return nil
	})
}

// drawingAddAction handles the drawing add command.
func drawingAddAction(ctx *cli.Context) error {
	src := ctx.Args().First()
	if src == "" {
		return errMissingArg.Fmt("file")
	}

	in := drawingInput{
		tag:      ctx.String("tag"),
		artist:   ctx.String("artist"),
		drawn:    ctx.String("drawn"),
		photoID:  ctx.Uint64("photo"),
		duration: ctx.Int("duration"),
	}

	return withDB(func(db store.DB) error {
		drawing, err := addDrawing(
			ctx.Context,
			db,
			pathutil.DrawingsDir(),
			src,
			in,
			time.Now(),
		)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Added drawing %d", drawing.ID)

		return nil
	})
}

// drawingFilter resolves the --tag and --artist flags of drawing list.
func drawingFilter(ctx *cli.Context, db store.DB) (models.DrawingFilter, error) {
	var (
		filter models.DrawingFilter
		err    error
	)

	filter.TagID, err = tagFilter(ctx, db)
	if err != nil {
		return filter, err
	}

	if name := ctx.String("artist"); name != "" {
		filter.ArtistID, err = findArtist(ctx.Context, db, name)
	}

	return filter, err
}

// drawingListAction prints the gallery of uploaded drawings.
func drawingListAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	return withDB(func(db store.DB) error {
		filter, err := drawingFilter(ctx, db)
		if err != nil {
			return err
		}

		drawings, err := db.ListDrawings(ctx.Context, filter)
		if err != nil {
			return err
		}

		if len(drawings) == 0 {
			pterm.Info.Println(noDrawingsMsg)
			return nil
		}

		printDrawingsTable(config.Stdout, drawings, cfg.Display.TwentyFourHour)

		return nil
	})
}

func artistAddAction(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return errMissingArg.Fmt("artist name")
	}

	return withDB(func(db store.DB) error {
		artist, err := db.AddArtist(ctx.Context, name)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Added artist %d: %s", artist.ID, artist.Name)

		return nil
	})
}

func artistListAction(ctx *cli.Context) error {
	return withDB(func(db store.DB) error {
		artists, err := db.ListArtists(ctx.Context)
		if err != nil {
			return err
		}

		if len(artists) == 0 {
			pterm.Info.Println(noArtistsMsg)
			return nil
		}

		printArtistsTable(config.Stdout, artists)

		return nil
	})
}

func artistRenameAction(ctx *cli.Context) error {
	id, err := parseID(ctx, 0, "artist id")
	if err != nil {
		return err
	}

	name := ctx.Args().Get(1)
	if name == "" {
		return errMissingArg.Fmt("artist name")
	}

	return withDB(func(db store.DB) error {
		err := db.UpdateArtist(ctx.Context, id, name)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Renamed artist %d to %s", id, strings.TrimSpace(name))

		return nil
	})
}

// artistDeleteAction removes an artist after confirmation. Their drawings
// stay in the gallery.
func artistDeleteAction(ctx *cli.Context) error {
	id, err := parseID(ctx, 0, "artist id")
	if err != nil {
		return err
	}

	return withDB(func(db store.DB) error {
		artists, err := db.ListArtists(ctx.Context)
		if err != nil {
			return err
		}

		i := slices.IndexFunc(artists, func(a models.Artist) bool {
			return a.ID == id
		})
		if i < 0 {
			return store.ErrNotFound.Fmt("artist", id)
		}

		printArtistsTable(config.Stdout, artists[i:i+1])

		confirm(
			config.Stdout,
			config.Stdin,
			"The above artist will be deleted. Their drawings are kept. Press ENTER to proceed",
		)

		err = db.DeleteArtist(ctx.Context, id)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Deleted artist %d", id)

		return nil
	})
}
