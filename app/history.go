package app

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/sketch/internal/config"
	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/store"
)

// filterSessions returns the sessions started at or after since. A zero
// since keeps every session.
func filterSessions(sessions []models.Session, since time.Time) []models.Session {
	if since.IsZero() {
		return sessions
	}

	filtered := make([]models.Session, 0, len(sessions))

	for i := range sessions {
		if !sessions[i].StartedAt.Before(since) {
			filtered = append(filtered, sessions[i])
		}
	}

	return filtered
}

// planNames maps plan ids to names for display.
func planNames(ctx context.Context, db store.DB) (map[uint64]string, error) {
	plans, err := db.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uint64]string, len(plans))

	for i := range plans {
		names[plans[i].ID] = plans[i].Name
	}

	return names, nil
}

// writeSessionJSON writes detail as indented JSON.
func writeSessionJSON(w io.Writer, detail *models.SessionDetail) error {
	b, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return err
	}

	_, err = w.Write(append(b, '\n'))

	return err
}

// historyAction lists recorded sessions, newest first.
func historyAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	return withDB(func(db store.DB) error {
		sessions, err := db.ListSessions(ctx.Context, !cfg.CLI.All)
		if err != nil {
			return err
		}

		sessions = filterSessions(sessions, cfg.CLI.Since)

		if len(sessions) == 0 {
			pterm.Info.Println(noSessionsMsg)
			return nil
		}

		names, err := planNames(ctx.Context, db)
		if err != nil {
			return err
		}

		printSessionsTable(
			config.Stdout,
			sessions,
			names,
			cfg.Display.TwentyFourHour,
		)

		return nil
	})
}

// historyShowAction prints the results of one session.
func historyShowAction(ctx *cli.Context) error {
	id, err := parseID(ctx, 0, "session id")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	return withDB(func(db store.DB) error {
		detail, err := db.GetSession(ctx.Context, id)
		if err != nil {
			return err
		}

		if ctx.Bool("json") {
			return writeSessionJSON(config.Stdout, detail)
		}

		printSessionDetail(config.Stdout, detail, cfg.Display.TwentyFourHour)

		return nil
	})
}
