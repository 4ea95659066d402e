// Package drag turns a three-phase drag gesture into tree mutations.
//
// A session starts Idle, enters Dragging on DragStart and always returns to
// Idle on DragEnd or Cancel, whatever the outcome. Drops that reference stale
// ids are absorbed as no-ops.
package drag

import (
	"math"

	"github.com/rs/zerolog"

	"lesson-cli/internal/cleanup"
	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
	"lesson-cli/internal/mutate"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Policy names the branch a drop (or preview) took.
type Policy string

const (
	PolicyNone     Policy = "none"
	PolicyReorder  Policy = "reorder"
	PolicyCanvas   Policy = "canvas"
	PolicyColumn   Policy = "column"
	PolicyResource Policy = "resource"
	PolicyFallback Policy = "append-to-last"
)

// Result carries the tree to adopt and the node to select. When Changed is
// false Tree is the input tree.
type Result struct {
	Tree      model.Tree
	Selection string
	Changed   bool
	Policy    Policy
}

type Coordinator struct {
	state  State
	active Source
	// lastOver is the target most recently previewed by DragOver.
	lastOver string
	log      zerolog.Logger
}

func NewCoordinator(log zerolog.Logger) *Coordinator {
	return &Coordinator{log: log}
}

func (c *Coordinator) State() State { return c.state }

// Active returns the source being dragged, for overlay rendering.
func (c *Coordinator) Active() (Source, bool) {
	if c.state != Dragging {
		return Source{}, false
	}
	return c.active, true
}

func (c *Coordinator) DragStart(src Source) {
	c.state = Dragging
	c.active = src
	c.lastOver = ""
	c.log.Debug().Str("source", src.String()).Msg("drag start")
}

// Cancel abandons the gesture without touching the tree.
func (c *Coordinator) Cancel() {
	if c.state == Dragging {
		c.log.Debug().Str("source", c.active.String()).Msg("drag cancelled")
	}
	c.reset()
}

func (c *Coordinator) reset() {
	c.state = Idle
	c.active = Source{}
	c.lastOver = ""
}

// DragOver previews a reorder when the source and the hovered node share a
// cell (or a column). Cross-container hovers change nothing until the drop,
// and hovering the target already previewed changes nothing again.
func (c *Coordinator) DragOver(t model.Tree, overID string) Result {
	unchanged := Result{Tree: t, Policy: PolicyNone}
	if c.state != Dragging || c.active.IsPalette() || overID == "" || overID == c.active.ID || overID == c.lastOver {
		return unchanged
	}
	out, ok := reorderSameContainer(t, c.active.ID, overID)
	if !ok {
		return unchanged
	}
	c.lastOver = overID
	return Result{Tree: out, Selection: c.active.ID, Changed: true, Policy: PolicyReorder}
}

// DragEnd resolves the drop and ends the gesture. Branches, in order:
//  1. canvas: the content gets a fresh row at the end of the document;
//  2. column slot: the block goes into that column;
//  3. a node that resolves: next to the hovered resource, or into a hovered cell/row;
//  4. nothing hovered: append to the last cell.
//
// A hovered id that does not resolve, or a source that is gone, is a no-op.
//
// After a move only the containers that held the source are cleaned up. The
// dragged node and protected (the caller's selection) are never pruned.
func (c *Coordinator) DragEnd(t model.Tree, target Target, protected ...string) Result {
	defer c.reset()
	unchanged := Result{Tree: t, Policy: PolicyNone}
	if c.state != Dragging {
		return unchanged
	}
	src := c.active

	var (
		res     model.Resource
		srcPath locate.Path
	)
	if src.IsPalette() {
		res = src.Palette.Build(locate.IDs(t))
	} else {
		if _, ok := locate.FindResourceLocation(t, src.ID); !ok {
			if _, ok := locate.FindColumnLocation(t, src.ID); !ok {
				c.log.Debug().Str("source", src.ID).Msg("drop ignored: stale source")
				return unchanged
			}
		}
		srcPath, _ = locate.FindPath(t, src.ID)
	}

	r := c.drop(t, src, res, target)
	if !r.Changed {
		c.log.Debug().Str("source", src.String()).Str("target", target.ID).Msg("drop ignored: unresolved target")
		return unchanged
	}
	if !src.IsPalette() && r.Policy != PolicyReorder {
		r.Tree = cleanup.PruneSource(r.Tree, srcPath, append([]string{src.ID}, protected...)...)
	}
	c.log.Debug().
		Str("source", src.String()).
		Str("target", target.ID).
		Str("policy", string(r.Policy)).
		Str("selection", r.Selection).
		Msg("drop")
	return r
}

func (c *Coordinator) drop(t model.Tree, src Source, res model.Resource, target Target) Result {
	place := func(policy Policy, dest mutate.Destination) Result {
		var (
			out model.Tree
			ok  bool
			sel string
		)
		if src.IsPalette() {
			out, ok = mutate.Place(t, res, dest)
			sel = res.ID()
		} else {
			out, ok = mutate.MoveResource(t, src.ID, dest)
			sel = src.ID
		}
		if !ok {
			return Result{Tree: t, Policy: PolicyNone}
		}
		return Result{Tree: out, Selection: sel, Changed: true, Policy: policy}
	}

	switch {
	case target.ID == CanvasID:
		if src.IsPalette() && res.IsConstructor() {
			// A dropped layout becomes a top-level row of its own rather than
			// a constructor wrapped in a new row.
			return Result{Tree: mutate.InsertRowAfter(t, "", *res.Row), Selection: res.ID(), Changed: true, Policy: PolicyCanvas}
		}
		return place(PolicyCanvas, mutate.NewRowAfter{})

	case target.Column != nil:
		return place(PolicyColumn, mutate.ColumnSlot{ColumnsID: target.Column.ColumnsID, Column: target.Column.Column})

	case target.ID != "":
		if target.ID == src.ID {
			return Result{Tree: t, Policy: PolicyNone}
		}
		return c.dropOnNode(t, src, target.ID, place)

	default:
		return place(PolicyFallback, mutate.AppendToLast{})
	}
}

func (c *Coordinator) dropOnNode(t model.Tree, src Source, overID string, place func(Policy, mutate.Destination) Result) Result {
	_, inCell := locate.FindResourceLocation(t, overID)
	_, inColumn := locate.FindColumnLocation(t, overID)
	if inCell || inColumn {
		if !src.IsPalette() {
			if overID == c.lastOver {
				// Already applied by the DragOver preview.
				if _, ok := sameContainer(t, src.ID, overID); ok {
					return Result{Tree: t, Selection: src.ID, Changed: true, Policy: PolicyReorder}
				}
			}
			if out, ok := reorderSameContainer(t, src.ID, overID); ok {
				return Result{Tree: out, Selection: src.ID, Changed: true, Policy: PolicyReorder}
			}
			return place(PolicyResource, mutate.After{AnchorID: overID})
		}
		// Palette content lands in the hovered slot, pushing the hovered node down.
		return place(PolicyResource, mutate.Before{AnchorID: overID})
	}
	if cell, _, ok := locate.FindCell(t, overID); ok {
		return place(PolicyResource, mutate.CellPosition{CellID: cell.ID, Index: math.MaxInt})
	}
	if row, ok := locate.FindRow(t, overID); ok && len(row.Cells) > 0 {
		return place(PolicyResource, mutate.CellPosition{RowID: row.ID, CellID: row.Cells[0].ID, Index: math.MaxInt})
	}
	return Result{Tree: t, Policy: PolicyNone}
}

type containerRef struct {
	cellID    string
	columnsID string
	column    int
	from, to  int
}

// sameContainer reports whether two blocks share a cell or a column, with
// their indices in the reorder index space.
func sameContainer(t model.Tree, a, b string) (containerRef, bool) {
	la, okA := locate.FindLocation(t, a)
	lb, okB := locate.FindLocation(t, b)
	if okA && okB {
		if la.CellID != lb.CellID {
			return containerRef{}, false
		}
		cell, _, ok := locate.FindCell(t, la.CellID)
		if !ok {
			return containerRef{}, false
		}
		return containerRef{cellID: cell.ID, from: mutate.BlockIndex(cell, a), to: mutate.BlockIndex(cell, b)}, true
	}
	ca, okA := locate.FindColumnLocation(t, a)
	cb, okB := locate.FindColumnLocation(t, b)
	if okA && okB && ca.ColumnsID == cb.ColumnsID && ca.Column == cb.Column {
		return containerRef{columnsID: ca.ColumnsID, column: ca.Column, from: ca.Index, to: cb.Index}, true
	}
	return containerRef{}, false
}

func reorderSameContainer(t model.Tree, srcID, overID string) (model.Tree, bool) {
	ref, ok := sameContainer(t, srcID, overID)
	if !ok || ref.from < 0 || ref.to < 0 {
		return t, false
	}
	if ref.cellID != "" {
		return mutate.Reorder(t, ref.cellID, ref.from, ref.to)
	}
	return mutate.ReorderColumn(t, ref.columnsID, ref.column, ref.from, ref.to)
}
