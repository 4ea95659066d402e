package mutate

import (
	"strings"

	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
)

// InsertAt splices res into the cell at index (clamped to the cell bounds).
// rowID may be empty; when set the cell must belong to that row.
func InsertAt(t model.Tree, rowID, cellID string, index int, res model.Resource) (model.Tree, bool) {
	cellID = strings.TrimSpace(cellID)
	if cellID == "" || res.ID() == "" {
		return t, false
	}
	return rewriteCell(t, strings.TrimSpace(rowID), cellID, func(c model.Cell) (model.Cell, bool) {
		c.Resources = insertResource(c.Resources, index, res)
		return c, true
	})
}

// InsertAfter splices res right after the anchor resource. An anchor inside a
// columns block works too when res is a block. Returns the tree unchanged when
// the anchor can't be found; callers fall back to AppendToLastCell.
func InsertAfter(t model.Tree, anchorID string, res model.Resource) (model.Tree, bool) {
	return insertNextTo(t, anchorID, res, 1)
}

// InsertBefore splices res right before the anchor resource.
func InsertBefore(t model.Tree, anchorID string, res model.Resource) (model.Tree, bool) {
	return insertNextTo(t, anchorID, res, 0)
}

func insertNextTo(t model.Tree, anchorID string, res model.Resource, offset int) (model.Tree, bool) {
	if loc, ok := locate.FindResourceLocation(t, anchorID); ok {
		return InsertAt(t, loc.RowID, loc.CellID, loc.Index+offset, res)
	}
	if !res.IsBlock() {
		return t, false
	}
	if cl, ok := locate.FindColumnLocation(t, anchorID); ok {
		return InsertIntoColumnAt(t, cl.ColumnsID, cl.Column, cl.Index+offset, *res.Block)
	}
	return t, false
}

// AppendToLastCell appends res to the first cell of the last row, creating the
// row (or cell) when missing. This is the fallback when nothing else resolves.
func AppendToLastCell(t model.Tree, res model.Resource) model.Tree {
	if len(t) == 0 {
		return model.Tree{model.NewRowWith(res, locate.IDs(t))}
	}
	out := make(model.Tree, len(t))
	copy(out, t)
	last := out[len(out)-1]
	if len(last.Cells) == 0 {
		c := model.NewCell(locate.IDs(t))
		c.Resources = append(c.Resources, res)
		last.Cells = []model.Cell{c}
		out[len(out)-1] = last
		return out
	}
	first := last.Cells[0]
	first.Resources = insertResource(first.Resources, len(first.Resources), res)
	out[len(out)-1] = withCell(last, 0, first)
	return out
}

// InsertNewRowAfter puts res into a brand-new row placed right after the anchor
// row. For a top-level anchor the new row joins the document; for a
// constructor anchor the new row becomes a sibling constructor in the same
// cell. An empty anchor appends the row at the end of the document.
func InsertNewRowAfter(t model.Tree, anchorRowID string, res model.Resource) (model.Tree, bool) {
	anchorRowID = strings.TrimSpace(anchorRowID)
	if anchorRowID == "" {
		return insertRow(t, len(t), model.NewRowWith(res, locate.IDs(t))), true
	}
	for i, r := range t {
		if r.ID == anchorRowID {
			return insertRow(t, i+1, model.NewRowWith(res, locate.IDs(t))), true
		}
	}
	loc, ok := locate.FindResourceLocation(t, anchorRowID)
	if !ok {
		return t, false
	}
	return InsertAt(t, loc.RowID, loc.CellID, loc.Index+1, model.ConstructorResource(model.NewRowWith(res, locate.IDs(t))))
}

// InsertRowAfter places an already-built row after the anchor (end of the
// document when the anchor is empty or unknown at top level).
func InsertRowAfter(t model.Tree, anchorRowID string, r model.Row) model.Tree {
	for i, x := range t {
		if x.ID == anchorRowID {
			return insertRow(t, i+1, r)
		}
	}
	return insertRow(t, len(t), r)
}

// InsertIntoColumn appends b to the given column of a columns block, searching
// through nested constructors and nested columns blocks.
func InsertIntoColumn(t model.Tree, columnsID string, column int, b model.Block) (model.Tree, bool) {
	return InsertIntoColumnAt(t, columnsID, column, -1, b)
}

// InsertIntoColumnAt inserts b at index in the column; a negative index appends.
func InsertIntoColumnAt(t model.Tree, columnsID string, column, index int, b model.Block) (model.Tree, bool) {
	columnsID = strings.TrimSpace(columnsID)
	if columnsID == "" || b.ID == "" || b.ID == columnsID {
		return t, false
	}
	return rewriteBlocks(t, func(x model.Block) (model.Block, bool) {
		if x.ID != columnsID || !x.IsColumns() {
			return x, false
		}
		if column < 0 || column >= len(x.Columns) {
			return x, false
		}
		col := x.Columns[column]
		at := index
		if at < 0 {
			at = len(col)
		}
		return withColumn(x, column, insertBlock(col, at, b)), true
	})
}
