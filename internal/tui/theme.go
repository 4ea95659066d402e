package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The canvas must stay readable on light and dark backgrounds, so colors are
// adaptive and faint styling is only used on dark terminals.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	defaultColorMuted lipgloss.TerminalColor = ac("240", "243")
	colorMuted                               = defaultColorMuted

	defaultColorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedBg                               = defaultColorSelectedBg
	defaultColorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorSelectedFg                               = defaultColorSelectedFg

	defaultColorAccent lipgloss.TerminalColor = ac("27", "62") // blue
	colorAccent                               = defaultColorAccent

	// Drag feedback: the picked-up node and the hovered drop target.
	defaultColorDragFg lipgloss.TerminalColor = ac("130", "214") // amber
	colorDragFg                               = defaultColorDragFg

	defaultColorErrorFg lipgloss.TerminalColor = ac("160", "203")
	colorErrorFg                               = defaultColorErrorFg
)

// applyTheme switches the palette. "mono" drops every color and relies on
// reverse video and bold for emphasis.
func applyTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mono":
		none := lipgloss.NoColor{}
		colorMuted = none
		colorSelectedBg = none
		colorSelectedFg = none
		colorAccent = none
		colorDragFg = none
		colorErrorFg = none
	default:
		colorMuted = defaultColorMuted
		colorSelectedBg = defaultColorSelectedBg
		colorSelectedFg = defaultColorSelectedFg
		colorAccent = defaultColorAccent
		colorDragFg = defaultColorDragFg
		colorErrorFg = defaultColorErrorFg
	}
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleSelected(mono bool) lipgloss.Style {
	st := lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
	if mono {
		st = st.Reverse(true)
	}
	return st
}

func styleDrag() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorDragFg).Bold(true)
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorErrorFg)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the editor.
//
// termenv.EnvColorProfile honors CLICOLOR, which can switch colors off inside
// a TUI. Only NO_COLOR is respected here; otherwise the terminal decides.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}
