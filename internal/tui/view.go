package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"lesson-cli/internal/export"
	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

func (m appModel) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}

	header := styleTitle().Render(xansi.Truncate(m.lesson.Title, w, "…"))
	if m.dirty() {
		header += styleMuted().Render(" (modified)")
	}
	footer := m.footer(w)

	bodyHeight := h - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if m.preview && m.mode != modeDrag {
		canvasW := w / 2
		left := m.canvasView(canvasW, bodyHeight)
		right := m.previewView(w-canvasW-1, bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	} else {
		body = m.canvasView(w, bodyHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m appModel) footer(w int) string {
	var lines []string
	if m.mode == modeEditTitle {
		lines = append(lines, "title: "+m.input.View())
	}
	switch {
	case m.err != nil:
		lines = append(lines, styleError().Render(xansi.Truncate(m.err.Error(), w, "…")))
	case m.status != "":
		lines = append(lines, styleMuted().Render(xansi.Truncate(m.status, w, "…")))
	}
	if m.mode == modeDrag {
		lines = append(lines, m.help.View(dragKeyMap(m.keys)))
	} else {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

// canvasView renders the flattened tree, scrolled so the cursor is visible.
func (m appModel) canvasView(w, h int) string {
	if len(m.nodes) == 0 {
		return lipgloss.NewStyle().Width(w).Height(h).Render(styleMuted().Render("(empty lesson: press t to add text)"))
	}
	start := 0
	if m.cursor >= h {
		start = m.cursor - h + 1
	}
	end := start + h
	if end > len(m.nodes) {
		end = len(m.nodes)
	}

	dragging := ""
	if src, ok := m.sess.Dragging(); ok {
		dragging = src.ID
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		n := m.nodes[i]
		line := strings.Repeat("  ", n.Depth) + nodeLabel(n)
		line = xansi.Truncate(line, w, "…")
		switch {
		case i == m.cursor && m.mode == modeDrag:
			line = styleDrag().Render("▸ " + line)
		case i == m.cursor:
			line = styleSelected(m.mono).Render(line)
		case dragging != "" && n.ID == dragging && n.Kind != locate.NodeColumn:
			line = styleDrag().Render(line)
		case n.Kind == locate.NodeRow || n.Kind == locate.NodeCell || n.Kind == locate.NodeColumn:
			line = styleMuted().Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Width(w).Height(h).Render(strings.Join(lines, "\n"))
}

func nodeLabel(n locate.Node) string {
	switch n.Kind {
	case locate.NodeRow:
		if n.Row != nil && n.Row.EmptyState {
			return "row " + n.ID + " (empty state)"
		}
		return "row " + n.ID
	case locate.NodeCell:
		return "cell " + n.ID
	case locate.NodeConstructor:
		cols := 0
		if n.Row != nil {
			cols = len(n.Row.Cells)
		}
		return fmt.Sprintf("layout %s (%d)", n.ID, cols)
	case locate.NodeColumn:
		return fmt.Sprintf("column %d", n.Column)
	case locate.NodeBlock:
		if n.Block == nil {
			return n.ID
		}
		label := fmt.Sprintf("%s %s", n.Block.Type, n.ID)
		if s := blockSummary(*n.Block); s != "" {
			label += " " + fmt.Sprintf("%q", s)
		}
		return label
	}
	return n.ID
}

// blockSummary is the one-line text shown next to a block: its title, or
// else the plain text of its payload.
func blockSummary(b model.Block) string {
	if t := strings.TrimSpace(b.Title); t != "" {
		return t
	}
	if len(b.Payload) == 0 {
		return ""
	}
	switch b.Type {
	case model.BlockText:
		var p export.TextPayload
		if json.Unmarshal(b.Payload, &p) == nil {
			return export.PlainText(p.HTML)
		}
	case model.BlockHeader:
		var p export.HeaderPayload
		if json.Unmarshal(b.Payload, &p) == nil {
			return export.PlainText(p.Text)
		}
	case model.BlockQuiz:
		var p export.QuizPayload
		if json.Unmarshal(b.Payload, &p) == nil {
			return export.PlainText(p.Question)
		}
	case model.BlockImage:
		var p export.ImagePayload
		if json.Unmarshal(b.Payload, &p) == nil {
			return export.PlainText(p.Caption)
		}
	}
	return ""
}

func (m appModel) previewView(w, h int) string {
	l := *m.lesson
	l.Tree = m.sess.Tree()
	md, err := export.Markdown(&l, export.RenderOptions{})
	var out string
	if err != nil {
		out = styleError().Render(err.Error())
	} else {
		out = export.RenderTerminal(md, w, m.previewStyle)
	}
	lines := strings.Split(out, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for i, ln := range lines {
		lines[i] = xansi.Truncate(ln, w, "")
	}
	return lipgloss.NewStyle().Width(w).Height(h).Render(strings.Join(lines, "\n"))
}
