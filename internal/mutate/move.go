package mutate

import (
	"lesson-cli/internal/model"
)

// MoveResource takes the resource out of its current container and puts it at
// dest. The destination is resolved against the tree after removal, so an
// anchor inside the moved subtree (or the node itself) does not resolve. When
// the destination does not resolve the original tree is returned untouched:
// the node is never lost and never duplicated.
//
// The source side is not cleaned up here; run cleanup.PruneSource afterwards.
func MoveResource(t model.Tree, id string, dest Destination) (model.Tree, bool) {
	if dest == nil {
		return t, false
	}
	removed, res, ok := removeResource(t, id, false)
	if !ok {
		return t, false
	}
	out, ok := Place(removed, res, dest)
	if !ok {
		return t, false
	}
	return out, true
}

// Place inserts a resource that is not yet part of t at dest.
func Place(t model.Tree, res model.Resource, dest Destination) (model.Tree, bool) {
	switch d := dest.(type) {
	case CellPosition:
		return InsertAt(t, d.RowID, d.CellID, d.Index, res)
	case After:
		return InsertAfter(t, d.AnchorID, res)
	case Before:
		return InsertBefore(t, d.AnchorID, res)
	case ColumnSlot:
		if !res.IsBlock() {
			return t, false
		}
		return InsertIntoColumn(t, d.ColumnsID, d.Column, *res.Block)
	case AppendToLast:
		return AppendToLastCell(t, res), true
	case NewRowAfter:
		return InsertNewRowAfter(t, d.RowID, res)
	default:
		return t, false
	}
}
