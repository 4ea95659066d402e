package mutate

import "lesson-cli/internal/model"

// Path-copying helpers. Every helper returns fresh containers along the edited
// path and shares everything else with its input.

type rowEdit func(r model.Row) (model.Row, bool)

// rewriteRows offers every row (top-level first, then constructor rows in
// pre-order) to edit until one accepts.
func rewriteRows(t model.Tree, edit rowEdit) (model.Tree, bool) {
	for i, r := range t {
		if nr, ok := rewriteRow(r, edit); ok {
			out := make(model.Tree, len(t))
			copy(out, t)
			out[i] = nr
			return out, true
		}
	}
	return t, false
}

func rewriteRow(r model.Row, edit rowEdit) (model.Row, bool) {
	if nr, ok := edit(r); ok {
		return nr, true
	}
	for ci, c := range r.Cells {
		for ri, res := range c.Resources {
			if !res.IsConstructor() {
				continue
			}
			if nr, ok := rewriteRow(*res.Row, edit); ok {
				return withCell(r, ci, withResource(c, ri, model.ConstructorResource(nr))), true
			}
		}
	}
	return r, false
}

// rewriteCell applies edit to the cell with the given id. If rowID is set the
// cell must belong to that row.
func rewriteCell(t model.Tree, rowID, cellID string, edit func(c model.Cell) (model.Cell, bool)) (model.Tree, bool) {
	return rewriteRows(t, func(r model.Row) (model.Row, bool) {
		for ci, c := range r.Cells {
			if c.ID != cellID {
				continue
			}
			if rowID != "" && r.ID != rowID {
				return r, false
			}
			nc, ok := edit(c)
			if !ok {
				return r, false
			}
			return withCell(r, ci, nc), true
		}
		return r, false
	})
}

// rewriteBlocks offers every block (including blocks inside columns) to edit.
func rewriteBlocks(t model.Tree, edit func(b model.Block) (model.Block, bool)) (model.Tree, bool) {
	return rewriteRows(t, func(r model.Row) (model.Row, bool) {
		for ci, c := range r.Cells {
			for ri, res := range c.Resources {
				if !res.IsBlock() {
					continue
				}
				if nb, ok := rewriteBlock(*res.Block, edit); ok {
					return withCell(r, ci, withResource(c, ri, model.BlockResource(nb))), true
				}
			}
		}
		return r, false
	})
}

func rewriteBlock(b model.Block, edit func(b model.Block) (model.Block, bool)) (model.Block, bool) {
	if nb, ok := edit(b); ok {
		return nb, true
	}
	for ci, col := range b.Columns {
		for i, child := range col {
			if nchild, ok := rewriteBlock(child, edit); ok {
				ncol := make([]model.Block, len(col))
				copy(ncol, col)
				ncol[i] = nchild
				return withColumn(b, ci, ncol), true
			}
		}
	}
	return b, false
}

func withCell(r model.Row, i int, c model.Cell) model.Row {
	cells := make([]model.Cell, len(r.Cells))
	copy(cells, r.Cells)
	cells[i] = c
	r.Cells = cells
	return r
}

func withResource(c model.Cell, i int, res model.Resource) model.Cell {
	rs := make([]model.Resource, len(c.Resources))
	copy(rs, c.Resources)
	rs[i] = res
	c.Resources = rs
	return c
}

func withColumn(b model.Block, i int, col []model.Block) model.Block {
	cols := make([][]model.Block, len(b.Columns))
	copy(cols, b.Columns)
	cols[i] = col
	b.Columns = cols
	return b
}

func insertResource(rs []model.Resource, i int, res model.Resource) []model.Resource {
	i = clamp(i, 0, len(rs))
	out := make([]model.Resource, 0, len(rs)+1)
	out = append(out, rs[:i]...)
	out = append(out, res)
	return append(out, rs[i:]...)
}

func removeResourceAt(rs []model.Resource, i int) []model.Resource {
	out := make([]model.Resource, 0, len(rs)-1)
	out = append(out, rs[:i]...)
	return append(out, rs[i+1:]...)
}

func insertBlock(bs []model.Block, i int, b model.Block) []model.Block {
	i = clamp(i, 0, len(bs))
	out := make([]model.Block, 0, len(bs)+1)
	out = append(out, bs[:i]...)
	out = append(out, b)
	return append(out, bs[i:]...)
}

func removeBlockAt(bs []model.Block, i int) []model.Block {
	out := make([]model.Block, 0, len(bs)-1)
	out = append(out, bs[:i]...)
	return append(out, bs[i+1:]...)
}

func insertRow(t model.Tree, i int, r model.Row) model.Tree {
	i = clamp(i, 0, len(t))
	out := make(model.Tree, 0, len(t)+1)
	out = append(out, t[:i]...)
	out = append(out, r)
	return append(out, t[i:]...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
