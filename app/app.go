// Package app defines the sketch command-line interface
package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/sketch/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the sketch app instance.
func Get() *cli.App {
	return &cli.App{
		Name: "sketch",
		Authors: []*cli.Author{
			{
				Name:  "Ayooluwa Isaiah",
				Email: "ayo@freshman.tech",
			},
		},
		Usage: `
		Sketch runs timed figure-drawing practice sessions from the command-line.
		Each session follows a plan of exercises, showing a random reference
		photo from a category for a fixed time with short breaks in between.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			planCommand,
			tagCommand,
			photoCommand,
			historyCommand,
			drawingCommand,
			artistCommand,
		},
		Flags: []cli.Flag{
			planFlag,
			disableNotificationFlag,
			soundFlag,
			sessionCmdFlag,
			noColorFlag,
		},
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}
}

var planCommand = &cli.Command{
	Name:  "plan",
	Usage: "Manage session plans",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List all session plans",
			Action: planListAction,
		},
		{
			Name: "create",
			Usage: `Create a plan. Without --exercise, an interactive form is shown.
				Example: sketch plan create --name "Warm up" -x gesture:30 -x hands:120`,
			Flags:  []cli.Flag{nameFlag, exerciseFlag},
			Action: planCreateAction,
		},
		{
			Name:      "edit",
			Usage:     "Rename a plan or replace its exercises",
			ArgsUsage: "PLAN_ID",
			Flags:     []cli.Flag{nameFlag, exerciseFlag},
			Action:    planEditAction,
		},
		{
			Name:      "delete",
			Usage:     "Delete a plan. Recorded sessions are kept",
			ArgsUsage: "PLAN_ID",
			Action:    planDeleteAction,
		},
	},
}

var tagCommand = &cli.Command{
	Name:  "tag",
	Usage: "Manage photo categories",
	Subcommands: []*cli.Command{
		{
			Name:      "add",
			Usage:     "Create a category",
			ArgsUsage: "NAME",
			Action:    tagAddAction,
		},
		{
			Name:   "list",
			Usage:  "List categories and their photo counts",
			Action: tagListAction,
		},
	},
}

var photoCommand = &cli.Command{
	Name:  "photo",
	Usage: "Manage reference photos",
	Subcommands: []*cli.Command{
		{
			Name:      "add",
			Usage:     "Import image files or directories into the library",
			ArgsUsage: "FILE...",
			Flags:     []cli.Flag{photoTagFlag},
			Action:    photoAddAction,
		},
		{
			Name:   "list",
			Usage:  "List reference photos",
			Flags:  []cli.Flag{tagFilterFlag},
			Action: photoListAction,
		},
		{
			Name:      "tag",
			Usage:     "Add a photo to a category",
			ArgsUsage: "PHOTO_ID TAG",
			Action:    photoTagAction,
		},
		{
			Name:      "untag",
			Usage:     "Remove a photo from a category",
			ArgsUsage: "PHOTO_ID TAG",
			Action:    photoUntagAction,
		},
		{
			Name:      "delete",
			Usage:     "Delete a photo from the library",
			ArgsUsage: "PHOTO_ID",
			Action:    photoDeleteAction,
		},
	},
}

var historyCommand = &cli.Command{
	Name:   "history",
	Usage:  "List practice sessions. Defaults to completed sessions only",
	Flags:  []cli.Flag{sinceFlag, allFlag},
	Action: historyAction,
	Subcommands: []*cli.Command{
		{
			Name:      "show",
			Usage:     "Show the results of a session",
			ArgsUsage: "SESSION_ID",
			Flags:     []cli.Flag{jsonFlag},
			Action:    historyShowAction,
		},
	},
}

var drawingCommand = &cli.Command{
	Name:  "drawing",
	Usage: "Manage the drawing gallery",
	Subcommands: []*cli.Command{
		{
			Name:      "attach",
			Usage:     "Attach a drawing to a session result",
			ArgsUsage: "RESULT_ID FILE",
			Flags:     []cli.Flag{artistFlag},
			Action:    drawingAttachAction,
		},
		{
			Name:      "add",
			Usage:     "Add a drawing made outside a session",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				drawingTagFlag,
				durationFlag,
				photoFlag,
				artistFlag,
				drawnFlag,
			},
			Action: drawingAddAction,
		},
		{
			Name:   "list",
			Usage:  "List drawings, most recently drawn first",
			Flags:  []cli.Flag{tagFilterFlag, artistFilterFlag},
			Action: drawingListAction,
		},
	},
}

var artistCommand = &cli.Command{
	Name:  "artist",
	Usage: "Manage artists",
	Subcommands: []*cli.Command{
		{
			Name:      "add",
			Usage:     "Add an artist",
			ArgsUsage: "NAME",
			Action:    artistAddAction,
		},
		{
			Name:   "list",
			Usage:  "List artists",
			Action: artistListAction,
		},
		{
			Name:      "rename",
			Usage:     "Rename an artist",
			ArgsUsage: "ARTIST_ID NAME",
			Action:    artistRenameAction,
		},
		{
			Name:      "delete",
			Usage:     "Delete an artist. Their drawings are kept",
			ArgsUsage: "ARTIST_ID",
			Action:    artistDeleteAction,
		},
	},
}
