package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"

	"lesson-cli/internal/model"
)

// WriteTree draws a document as an indented outline. Values that carry no
// document are written as JSON instead.
func WriteTree(w io.Writer, v any, pretty bool) error {
	doc, title, sel, ok := documentOf(v)
	if !ok {
		return WriteJSON(w, v, pretty)
	}
	_, err := fmt.Fprintln(w, RenderTree(doc, title, sel))
	return err
}

func documentOf(v any) (model.Tree, string, string, bool) {
	switch x := v.(type) {
	case model.Tree:
		return x, "lesson", "", true
	case *model.Lesson:
		if x == nil {
			return nil, "", "", false
		}
		return x.Tree, lessonLabel(x), "", true
	case model.Lesson:
		return x.Tree, lessonLabel(&x), "", true
	case Envelope:
		doc, title, _, ok := documentOf(x.Data)
		return doc, title, x.Selection, ok
	case *Envelope:
		if x == nil {
			return nil, "", "", false
		}
		return documentOf(*x)
	}
	return nil, "", "", false
}

func lessonLabel(l *model.Lesson) string {
	if strings.TrimSpace(l.Title) == "" {
		return l.ID
	}
	return l.Title + " (" + l.ID + ")"
}

// RenderTree returns the outline of t. The node whose id equals selected is
// marked with a leading "*".
func RenderTree(t model.Tree, title, selected string) string {
	root := tree.Root(title)
	for _, r := range t {
		root.Child(rowNode(r, "row", selected))
	}
	return root.String()
}

func mark(label, id, selected string) string {
	if id != "" && id == selected {
		return "* " + label
	}
	return label
}

func rowNode(r model.Row, kind, selected string) *tree.Tree {
	label := kind + " " + r.ID
	if r.EmptyState {
		label += " (empty state)"
	}
	n := tree.Root(mark(label, r.ID, selected))
	for _, c := range r.Cells {
		cn := tree.Root(mark("cell "+c.ID, c.ID, selected))
		for _, res := range c.Resources {
			switch {
			case res.IsConstructor():
				cn.Child(rowNode(*res.Row, "layout", selected))
			case res.IsBlock():
				cn.Child(blockNode(*res.Block, selected))
			}
		}
		n.Child(cn)
	}
	return n
}

func blockNode(b model.Block, selected string) any {
	label := string(b.Type) + " " + b.ID
	if t := strings.TrimSpace(b.Title); t != "" {
		label += fmt.Sprintf(" %q", t)
	}
	label = mark(label, b.ID, selected)
	if len(b.Columns) == 0 {
		return label
	}
	n := tree.Root(label)
	for i, col := range b.Columns {
		cn := tree.Root(fmt.Sprintf("column %d", i))
		for _, child := range col {
			cn.Child(blockNode(child, selected))
		}
		n.Child(cn)
	}
	return n
}
