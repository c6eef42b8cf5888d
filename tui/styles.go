package tui

import "github.com/charmbracelet/lipgloss"

const (
	padding  = 2
	maxWidth = 80
)

type styles struct {
	base      lipgloss.Style
	drawing   lipgloss.Style
	rest      lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
	danger    lipgloss.Style
}

func newStyles(dark bool) styles {
	drawing := lipgloss.Color("#B0DB43")
	rest := lipgloss.Color("#12EAEA")
	text := lipgloss.Color("#FFFFFF")
	muted := lipgloss.Color("#A6ADC8")

	if !dark {
		drawing = lipgloss.Color("#4C7A00")
		rest = lipgloss.Color("#00777A")
		text = lipgloss.Color("#1E1E2E")
		muted = lipgloss.Color("#5C5F77")
	}

	return styles{
		base: lipgloss.NewStyle().Padding(1, padding),
		drawing: lipgloss.NewStyle().
			Foreground(drawing).
			Bold(true).
			MarginRight(1),
		rest: lipgloss.NewStyle().
			Foreground(rest).
			Bold(true).
			MarginRight(1),
		main:      lipgloss.NewStyle().Foreground(text).Bold(true),
		secondary: lipgloss.NewStyle().Foreground(text),
		hint:      lipgloss.NewStyle().Foreground(muted),
		danger:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	}
}
