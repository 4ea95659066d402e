package mutate

import (
	"strings"

	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
)

// DeleteResource removes a block or constructor wherever it lives (cells,
// nested constructors, columns). A constructor goes with everything inside it.
// Emptiness cascades: a constructor left with no content in any of its cells
// is dropped from its parent, and so on upward.
//
// Top-level cells and rows left empty are handled by cleanup.PruneSource.
func DeleteResource(t model.Tree, id string) (model.Tree, bool) {
	out, _, ok := removeResource(t, id, true)
	return out, ok
}

// DeleteRow removes a top-level row, or a constructor row, with its content.
func DeleteRow(t model.Tree, rowID string) (model.Tree, bool) {
	rowID = strings.TrimSpace(rowID)
	for i, r := range t {
		if r.ID != rowID {
			continue
		}
		out := make(model.Tree, 0, len(t)-1)
		out = append(out, t[:i]...)
		return append(out, t[i+1:]...), true
	}
	if _, ok := locate.FindResourceLocation(t, rowID); ok {
		return DeleteResource(t, rowID)
	}
	return t, false
}

// DeleteCell removes a cell with its content from whichever row owns it.
func DeleteCell(t model.Tree, cellID string) (model.Tree, bool) {
	cellID = strings.TrimSpace(cellID)
	if cellID == "" {
		return t, false
	}
	return rewriteRows(t, func(r model.Row) (model.Row, bool) {
		for i, c := range r.Cells {
			if c.ID != cellID {
				continue
			}
			cells := make([]model.Cell, 0, len(r.Cells)-1)
			cells = append(cells, r.Cells[:i]...)
			r.Cells = append(cells, r.Cells[i+1:]...)
			return r, true
		}
		return r, false
	})
}

// DeleteNode removes any node by id: rows, cells, constructors and blocks.
func DeleteNode(t model.Tree, id string) (model.Tree, bool) {
	if locate.IsTopLevelRow(t, id) {
		return DeleteRow(t, id)
	}
	if out, ok := DeleteResource(t, id); ok {
		return out, true
	}
	return DeleteCell(t, id)
}

// removeResource detaches the resource with the given id and returns it.
// With cascade set, constructors emptied by the removal are dropped too.
func removeResource(t model.Tree, id string, cascade bool) (model.Tree, model.Resource, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return t, model.Resource{}, false
	}
	for i, r := range t {
		if nr, removed, ok := removeFromRow(r, id, cascade); ok {
			out := make(model.Tree, len(t))
			copy(out, t)
			out[i] = nr
			return out, removed, true
		}
	}
	return t, model.Resource{}, false
}

func removeFromRow(r model.Row, id string, cascade bool) (model.Row, model.Resource, bool) {
	for ci, c := range r.Cells {
		for ri, res := range c.Resources {
			if res.ID() == id {
				c.Resources = removeResourceAt(c.Resources, ri)
				return withCell(r, ci, c), res, true
			}
			switch {
			case res.IsConstructor():
				nr, removed, ok := removeFromRow(*res.Row, id, cascade)
				if !ok {
					continue
				}
				if cascade && nr.IsEmpty() {
					c.Resources = removeResourceAt(c.Resources, ri)
					return withCell(r, ci, c), removed, true
				}
				return withCell(r, ci, withResource(c, ri, model.ConstructorResource(nr))), removed, true
			case res.IsBlock() && len(res.Block.Columns) > 0:
				nb, removed, ok := removeFromColumns(*res.Block, id)
				if !ok {
					continue
				}
				return withCell(r, ci, withResource(c, ri, model.BlockResource(nb))), model.BlockResource(removed), true
			}
		}
	}
	return r, model.Resource{}, false
}

func removeFromColumns(b model.Block, id string) (model.Block, model.Block, bool) {
	for ci, col := range b.Columns {
		for i, child := range col {
			if child.ID == id {
				return withColumn(b, ci, removeBlockAt(col, i)), child, true
			}
			if len(child.Columns) == 0 {
				continue
			}
			if nchild, removed, ok := removeFromColumns(child, id); ok {
				ncol := make([]model.Block, len(col))
				copy(ncol, col)
				ncol[i] = nchild
				return withColumn(b, ci, ncol), removed, true
			}
		}
	}
	return b, model.Block{}, false
}
