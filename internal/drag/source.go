package drag

import (
	"fmt"
	"strings"

	"lesson-cli/internal/model"
)

// CanvasID is the drop target id of the empty canvas around the document.
const CanvasID = "canvas"

// PaletteItem is content that does not exist in the tree yet. Layout items
// build a constructor with Columns cells; the rest build a block of Type.
type PaletteItem struct {
	Type    model.BlockType
	Layout  bool
	Columns int
}

func (p PaletteItem) String() string {
	if p.Layout {
		return fmt.Sprintf("layout:%d", p.Columns)
	}
	return string(p.Type)
}

// Build mints the node with ids that are not in taken.
func (p PaletteItem) Build(taken map[string]bool) model.Resource {
	if p.Layout {
		return model.NewConstructor(p.Columns, taken)
	}
	if p.Type == model.BlockColumns && p.Columns > 0 {
		return model.BlockResource(model.NewColumnsBlock(p.Columns, taken))
	}
	return model.BlockResource(model.NewBlock(p.Type, taken))
}

// Source is what is being dragged: an existing node (ID) or palette content.
type Source struct {
	ID      string
	Palette *PaletteItem
}

func Existing(id string) Source { return Source{ID: strings.TrimSpace(id)} }

func FromPalette(p PaletteItem) Source { return Source{Palette: &p} }

func (s Source) IsPalette() bool { return s.Palette != nil }

func (s Source) String() string {
	if s.Palette != nil {
		return "palette:" + s.Palette.String()
	}
	return s.ID
}

// ParseSource reads the textual form used by the CLI: "palette:<type>",
// "palette:layout:<n>", "palette:columns:<n>", or an existing node id.
func ParseSource(s string) (Source, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Source{}, fmt.Errorf("empty drag source")
	}
	rest, ok := strings.CutPrefix(s, "palette:")
	if !ok {
		return Existing(s), nil
	}
	kind, n, hasN := strings.Cut(rest, ":")
	cols := 0
	if hasN {
		if _, err := fmt.Sscanf(n, "%d", &cols); err != nil || cols < 1 {
			return Source{}, fmt.Errorf("invalid column count %q", n)
		}
	}
	if kind == "layout" {
		if cols == 0 {
			cols = model.DefaultColumns
		}
		return FromPalette(PaletteItem{Layout: true, Columns: cols}), nil
	}
	t := model.BlockType(kind)
	if !t.Valid() {
		return Source{}, fmt.Errorf("unknown block type %q", kind)
	}
	return FromPalette(PaletteItem{Type: t, Columns: cols}), nil
}

// ColumnRef tags a drop target as one column of a columns block.
type ColumnRef struct {
	ColumnsID string
	Column    int
}

// Target is what the pointer was released over. ID is a node id, CanvasID, or
// "" when released over nothing. Column, when set, takes precedence over ID
// lookups (but not over the canvas).
type Target struct {
	ID     string
	Column *ColumnRef
}

func Canvas() Target { return Target{ID: CanvasID} }

func Over(id string) Target { return Target{ID: strings.TrimSpace(id)} }

func IntoColumn(columnsID string, column int) Target {
	return Target{ID: columnsID, Column: &ColumnRef{ColumnsID: columnsID, Column: column}}
}
