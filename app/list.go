package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/sketch/internal/models"
	"github.com/ayoisaiah/sketch/internal/timeutil"
	"github.com/ayoisaiah/sketch/internal/ui"
)

const (
	noSessionsMsg = "No sessions found for the specified time range"
	noPlansMsg    = "No session plans found. Create one with 'sketch plan create'"
	noTagsMsg     = "No categories found. Create one with 'sketch tag add NAME'"
	noPhotosMsg   = "No reference photos found"
	noDrawingsMsg = "No drawings found"
	noArtistsMsg  = "No artists found"
)

func fmtID(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func nameOr(names map[uint64]string, key uint64, fallback string) string {
	if name, ok := names[key]; ok {
		return name
	}

	return fallback
}

// exerciseSummary describes the exercises of a plan on one line.
func exerciseSummary(exercises []models.Exercise, tags map[uint64]string) string {
	parts := make([]string, len(exercises))

	for i := range exercises {
		parts[i] = fmt.Sprintf(
			"%s %s",
			nameOr(tags, exercises[i].TagID, "?"),
			timeutil.Seconds(exercises[i].DurationSeconds),
		)
	}

	return strings.Join(parts, " · ")
}

func printPlansTable(
	w io.Writer,
	plans []models.Plan,
	tags map[uint64]string,
) {
	body := [][]string{{"ID", "NAME", "EXERCISES", "TOTAL"}}

	for i := range plans {
		p := &plans[i]

		body = append(body, []string{
			fmtID(p.ID),
			p.Name,
			exerciseSummary(p.Exercises, tags),
			timeutil.Clock(p.TotalDuration()),
		})
	}

	ui.PrintTable(w, body)
}

func printTagsTable(w io.Writer, tags []models.TagSummary) {
	body := [][]string{{"ID", "NAME", "PHOTOS"}}

	for i := range tags {
		body = append(body, []string{
			fmtID(tags[i].ID),
			tags[i].Name,
			strconv.Itoa(tags[i].PhotoCount),
		})
	}

	ui.PrintTable(w, body)
}

func printPhotosTable(
	w io.Writer,
	photos []models.Photo,
	tags map[uint64]string,
) {
	body := [][]string{{"ID", "FILE", "TAGS", "PATH"}}

	for i := range photos {
		p := &photos[i]

		names := make([]string, len(p.TagIDs))
		for j, tagID := range p.TagIDs {
			names[j] = nameOr(tags, tagID, "?")
		}

		body = append(body, []string{
			fmtID(p.ID),
			p.OriginalFileName,
			strings.Join(names, " · "),
			p.FilePath,
		})
	}

	ui.PrintTable(w, body)
}

func printSessionsTable(
	w io.Writer,
	sessions []models.Session,
	plans map[uint64]string,
	twentyFourHour bool,
) {
	body := [][]string{{"ID", "PLAN", "STARTED", "RESULTS", "STATUS"}}

	for i := range sessions {
		sess := &sessions[i]

		status := ui.Green("completed")
		if !sess.Completed {
			status = ui.Red("abandoned")
		}

		body = append(body, []string{
			fmtID(sess.ID),
			nameOr(plans, sess.PlanID, "(deleted plan)"),
			timeutil.Format(sess.StartedAt, twentyFourHour),
			strconv.Itoa(len(sess.Results)),
			status,
		})
	}

	ui.PrintTable(w, body)
}

// printSessionDetail prints a session summary followed by its results.
func printSessionDetail(
	w io.Writer,
	detail *models.SessionDetail,
	twentyFourHour bool,
) {
	planName := detail.PlanName
	if planName == "" {
		planName = "(deleted plan)"
	}

	fmt.Fprintf(
		w,
		"%s %s\n%s %s\n",
		ui.Cyan("Plan:"),
		planName,
		ui.Cyan("Started:"),
		timeutil.Format(detail.StartedAt, twentyFourHour),
	)

	if detail.CompletedAt != nil {
		fmt.Fprintf(
			w,
			"%s %s\n",
			ui.Cyan("Completed:"),
			timeutil.Format(*detail.CompletedAt, twentyFourHour),
		)
	}

	fmt.Fprintln(w, pterm.Sprintf("%d exercises completed", detail.Presented()))

	if len(detail.Results) == 0 {
		return
	}

	body := [][]string{{"RESULT", "#", "CATEGORY", "DURATION", "PHOTO", "DRAWING"}}

	for i := range detail.Results {
		r := &detail.Results[i]

		photo := r.PhotoPath
		if r.PhotoID == nil {
			photo = "-"
		}

		if r.Skipped {
			photo += " " + ui.Red("(skipped)")
		}

		drawing := ""
		if r.Drawing != nil {
			drawing = r.Drawing.OriginalFileName
		}

		body = append(body, []string{
			fmtID(r.ID),
			strconv.Itoa(r.SortOrder + 1),
			r.TagName,
			timeutil.Seconds(r.DurationSeconds),
			photo,
			drawing,
		})
	}

	ui.PrintTable(w, body)
}

func printDrawingsTable(
	w io.Writer,
	drawings []models.DrawingDetail,
	twentyFourHour bool,
) {
	body := [][]string{{"ID", "SESSION", "CATEGORY", "ARTIST", "DRAWN", "PATH"}}

	for i := range drawings {
		d := &drawings[i]

		session := "-"
		if d.SessionID != 0 {
			session = fmtID(d.SessionID)
		}

		body = append(body, []string{
			fmtID(d.ID),
			session,
			d.TagName,
			d.ArtistName,
			timeutil.Format(d.DrawnAt, twentyFourHour),
			d.FilePath,
		})
	}

	ui.PrintTable(w, body)
}

func printArtistsTable(w io.Writer, artists []models.Artist) {
	body := [][]string{{"ID", "NAME"}}

	for i := range artists {
		body = append(body, []string{fmtID(artists[i].ID), artists[i].Name})
	}

	ui.PrintTable(w, body)
}
