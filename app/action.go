package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/sketch/countdown"
	"github.com/ayoisaiah/sketch/internal/config"
	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/internal/notify"
	"github.com/ayoisaiah/sketch/internal/osutil"
	"github.com/ayoisaiah/sketch/internal/pathutil"
	"github.com/ayoisaiah/sketch/internal/ui"
	"github.com/ayoisaiah/sketch/practice"
	"github.com/ayoisaiah/sketch/selector"
	"github.com/ayoisaiah/sketch/store"
	"github.com/ayoisaiah/sketch/tui"
)

const (
	envNoColor       = "NO_COLOR"
	envSketchNoColor = "SKETCH_NO_COLOR"
	envDebug         = "SKETCH_DEBUG"
	envSessionID     = "SKETCH_SESSION_ID"
)

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	return config.New(
		config.WithViperConfig(pathutil.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
}

// openDB opens the sketch database, creating its directory if needed.
func openDB() (*store.Client, error) {
	dbPath := pathutil.DBFilePath()

	err := os.MkdirAll(filepath.Dir(dbPath), osutil.DirPermission)
	if err != nil {
		return nil, err
	}

	return store.NewClient(dbPath, store.WithLogger(slog.Default()))
}

// withDB opens the database for the duration of fn.
func withDB(fn func(db store.DB) error) error {
	db, err := openDB()
	if err != nil {
		return err
	}

	defer db.Close()

	return fn(db)
}

// parseID parses the positional argument at index i as a record id.
func parseID(ctx *cli.Context, i int, kind string) (uint64, error) {
	arg := ctx.Args().Get(i)
	if arg == "" {
		return 0, errMissingArg.Fmt(kind)
	}

	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID.Fmt(kind, arg)
	}

	return id, nil
}

// resolvePlan returns the plan with the given id, or the most recently
// created plan when id is zero.
func resolvePlan(
	ctx context.Context,
	db store.DB,
	id uint64,
) (*models.Plan, error) {
	if id != 0 {
		return db.GetPlan(ctx, id)
	}

	plans, err := db.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	if len(plans) == 0 {
		return nil, errNoPlans
	}

	return &plans[0], nil
}

// tagNames maps tag ids to names for display.
func tagNames(ctx context.Context, db store.DB) (map[uint64]string, error) {
	tags, err := db.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uint64]string, len(tags))

	for i := range tags {
		names[tags[i].ID] = tags[i].Name
	}

	return names, nil
}

// runSessionCmd executes the configured post-session command with the id
// of the completed session in its environment.
func runSessionCmd(sessionCmd string, sessionID uint64) error {
	if sessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return errSessionCmd.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	//nolint:gosec // the command comes from the user's own config
	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%d", envSessionID, sessionID))

	return cmd.Run()
}

// printSummary prints the outcome of a finished session.
func printSummary(w io.Writer, detail *models.SessionDetail) {
	fmt.Fprintln(w, pterm.Success.Sprintf(
		"%d exercises completed",
		detail.Presented(),
	))

	fmt.Fprintf(
		w,
		"Run %s to review the session\n",
		ui.Highlight(fmt.Sprintf("sketch history show %d", detail.ID)),
	)
}

// runSession runs plan in the terminal UI and records it in db.
func runSession(
	ctx context.Context,
	db store.DB,
	cfg *config.Config,
	plan *models.Plan,
) (*tui.Model, error) {
	names, err := tagNames(ctx, db)
	if err != nil {
		return nil, err
	}

	var screen *tui.Model

	engine := practice.New(
		selector.New(db, nil),
		db,
		countdown.New(countdown.WithInterval(cfg.Session.TickInterval)),
		practice.WithLogger(slog.Default()),
		practice.WithObserver(func(ev practice.Event) {
			screen.Observe(ev)
		}),
	)

	screen = tui.New(
		ctx,
		engine,
		*plan,
		tui.WithAlerter(notify.New(
			cfg.Notifications,
			notify.WithLogger(slog.Default()),
		)),
		tui.WithTagNames(names),
		tui.WithDarkTheme(cfg.Display.DarkTheme),
	)

	_, err = tea.NewProgram(screen).Run()
	if err != nil {
		return nil, err
	}

	return screen, nil
}

// defaultAction runs a practice session for the selected plan.
func defaultAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	return withDB(func(db store.DB) error {
		plan, err := resolvePlan(ctx.Context, db, cfg.PlanID())
		if err != nil {
			return err
		}

		screen, err := runSession(ctx.Context, db, cfg, plan)
		if err != nil {
			return err
		}

		if err = screen.Err(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		if !screen.Finished() {
			pterm.Info.Println("Session abandoned")
			return nil
		}

		detail, err := db.GetSession(ctx.Context, screen.SessionID())
		if err != nil {
			return err
		}

		printSummary(config.Stdout, detail)

		err = runSessionCmd(cfg.Settings.Cmd, detail.ID)
		if err != nil {
			pterm.Warning.Printfln("session command failed: %v", err)
		}

		return nil
	})
}

// setupLogger sends structured logs to a rotating file.
func setupLogger(path string) {
	level := slog.LevelInfo
	if _, ok := os.LookupEnv(envDebug); ok {
		level = slog.LevelDebug
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	})))
}

func beforeAction(ctx *cli.Context) error {
	err := pathutil.Initialize()
	if err != nil {
		return err
	}

	setupLogger(pathutil.LogFilePath())

	// Override the default help template
	cli.AppHelpTemplate = helpText()

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/sketch/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if SKETCH_NO_COLOR is set
	if _, exists := os.LookupEnv(envSketchNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	slog.DebugContext(ctx.Context, "starting sketch", slog.Any("args", os.Args))

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.DebugContext(ctx.Context, "exiting sketch")

	return nil
}
