package app

import "github.com/urfave/cli/v2"

var (
	planFlag = &cli.Uint64Flag{
		Name:    "plan",
		Aliases: []string{"p"},
		Usage:   "ID of the plan to practise (default: session.default_plan or the newest plan)",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "Only list sessions started after this time (e.g. '2 weeks ago')",
	}

	allFlag = &cli.BoolFlag{
		Name:    "all",
		Aliases: []string{"a"},
		Usage:   "Include sessions that were not completed",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the session as JSON",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears when a drawing or break ends",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after a session is completed",
	}

	soundFlag = &cli.StringFlag{
		Name:  "sound",
		Usage: "Path to an mp3, ogg, flac or wav file played when a drawing or break ends. Disable sound by setting to 'off'",
	}

	nameFlag = &cli.StringFlag{
		Name:    "name",
		Aliases: []string{"n"},
		Usage:   "Plan name",
	}

	exerciseFlag = &cli.StringSliceFlag{
		Name:    "exercise",
		Aliases: []string{"x"},
		Usage:   "Exercise as TAG:SECONDS. Repeat for each exercise in order",
	}

	photoTagFlag = &cli.StringSliceFlag{
		Name:    "tag",
		Aliases: []string{"t"},
		Usage:   "Category to file the imported photos under. May be repeated",
	}

	tagFilterFlag = &cli.StringFlag{
		Name:    "tag",
		Aliases: []string{"t"},
		Usage:   "Only list items in this category",
	}

	artistFlag = &cli.StringFlag{
		Name:  "artist",
		Usage: "Name of the artist who made the drawing",
	}

	artistFilterFlag = &cli.StringFlag{
		Name:  "artist",
		Usage: "Only list drawings by this artist",
	}

	drawingTagFlag = &cli.StringFlag{
		Name:     "tag",
		Aliases:  []string{"t"},
		Usage:    "Category the drawing was practised in",
		Required: true,
	}

	durationFlag = &cli.IntFlag{
		Name:  "duration",
		Usage: "Time spent on the drawing in seconds",
	}

	photoFlag = &cli.Uint64Flag{
		Name:  "photo",
		Usage: "ID of the reference photo the drawing was made from",
	}

	drawnFlag = &cli.StringFlag{
		Name:  "drawn",
		Usage: "When the drawing was made (e.g. 'yesterday', '2024-03-01'). Defaults to now",
	}
)
