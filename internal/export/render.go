package export

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	rendererMu sync.Mutex
	// Renderers are cached by style and wrap width; building one is not cheap.
	renderers = map[string]*glamour.TermRenderer{}
)

// ResolveStyle maps a configured style name to a glamour standard style.
// "" and "auto" follow the terminal background without querying the terminal.
func ResolveStyle(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	case "notty", "plain", "ascii":
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// RenderTerminal renders Markdown for a terminal of the given width. On
// renderer errors the Markdown is returned as is.
func RenderTerminal(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	style = ResolveStyle(style)
	key := style + ":" + strconv.Itoa(width)

	rendererMu.Lock()
	r := renderers[key]
	rendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		rendererMu.Lock()
		// Re-check in case a concurrent goroutine filled it.
		if existing := renderers[key]; existing != nil {
			r = existing
		} else {
			renderers[key] = rr
			r = rr
		}
		rendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
