// Package ui holds the pterm helpers shared by the command-line output
package ui

import (
	"github.com/pterm/pterm"
)

// DarkTheme selects the light variants of each colour, which read better on
// dark terminals.
var DarkTheme bool

// Green is used for completed sessions.
func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

// Cyan is used for labels.
func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

// Red is used for abandoned sessions and skipped photos.
func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

// Highlight makes a to stand out from the surrounding text.
func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}
