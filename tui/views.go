package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/ayoisaiah/sketch/internal/timeutil"
	"github.com/ayoisaiah/sketch/practice"
)

func (m *Model) headerView() string {
	var s strings.Builder

	if m.snap.State == practice.Break {
		s.WriteString(m.styles.rest.Render("Break"))
	} else {
		s.WriteString(m.styles.drawing.Render(m.tagName(m.snap.Exercise.TagID)))
	}

	s.WriteString(m.styles.hint.Render(fmt.Sprintf(
		"Exercise %d of %d",
		m.snap.ExerciseIndex+1,
		m.snap.ExerciseCount,
	)))

	if m.snap.Paused {
		s.WriteString(" " + m.styles.secondary.Render("[Paused]"))
	}

	return s.String()
}

func (m *Model) drawingView() string {
	var s strings.Builder

	s.WriteString(m.headerView())
	s.WriteString("\n\n")

	if m.snap.Photo != nil {
		s.WriteString(m.styles.secondary.Render(m.snap.Photo.FilePath))
	} else {
		s.WriteString(m.styles.hint.Render("No reference photos in this category"))
	}

	s.WriteString("\n\n")
	s.WriteString(m.styles.main.Render(timeutil.Clock(m.remaining)))
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(m.snap.Progress))
	s.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{
		m.keys.togglePause,
		m.keys.skip,
		m.keys.end,
		m.keys.quit,
	}))

	return s.String()
}

func (m *Model) breakView() string {
	var s strings.Builder

	s.WriteString(m.headerView())
	s.WriteString("\n\n")

	if m.snap.Exercise != nil {
		s.WriteString(m.styles.hint.Render(fmt.Sprintf(
			"Up next: %s for %s",
			m.tagName(m.snap.Exercise.TagID),
			timeutil.Seconds(m.snap.Exercise.DurationSeconds),
		)))
		s.WriteString("\n\n")
	}

	s.WriteString(m.styles.main.Render(
		fmt.Sprintf("%02d:%02d", m.snap.BreakRemaining/60, m.snap.BreakRemaining%60),
	))
	s.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{
		m.keys.end,
		m.keys.quit,
	}))

	return s.String()
}

func (m *Model) View() string {
	if m.err != nil && !m.quitting {
		return m.styles.base.Render(m.styles.danger.Render("Error: " + m.err.Error()))
	}

	if m.quitting || m.finished {
		return ""
	}

	switch m.snap.State {
	case practice.Drawing:
		return m.styles.base.Render(m.drawingView())
	case practice.Break:
		return m.styles.base.Render(m.breakView())
	case practice.Idle, practice.Initializing, practice.Complete:
	}

	return m.styles.base.Render(m.styles.hint.Render("Preparing session..."))
}
