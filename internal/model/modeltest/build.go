// Package modeltest builds trees with fixed ids for tests.
package modeltest

import "lesson-cli/internal/model"

func Blk(id string) model.Resource {
	return model.BlockResource(model.Block{ID: id, Type: model.BlockText})
}

// Columns returns a columns block resource; each argument lists one column's block ids.
func Columns(id string, cols ...[]string) model.Resource {
	b := model.Block{ID: id, Type: model.BlockColumns, Columns: make([][]model.Block, len(cols))}
	for i, col := range cols {
		b.Columns[i] = []model.Block{}
		for _, bid := range col {
			b.Columns[i] = append(b.Columns[i], model.Block{ID: bid, Type: model.BlockText})
		}
	}
	return model.BlockResource(b)
}

func Cell(id string, rs ...model.Resource) model.Cell {
	if rs == nil {
		rs = []model.Resource{}
	}
	return model.Cell{ID: id, Resources: rs}
}

func Row(id string, cells ...model.Cell) model.Row {
	if cells == nil {
		cells = []model.Cell{}
	}
	return model.Row{ID: id, Cells: cells}
}

// Con wraps a row as a constructor resource.
func Con(id string, cells ...model.Cell) model.Resource {
	return model.ConstructorResource(Row(id, cells...))
}

func Tree(rows ...model.Row) model.Tree {
	return model.Tree(rows)
}

// ResourceIDs lists the ids held by a cell, in order.
func ResourceIDs(c model.Cell) []string {
	out := make([]string, 0, len(c.Resources))
	for _, r := range c.Resources {
		out = append(out, r.ID())
	}
	return out
}

// ColumnIDs lists the block ids of one column.
func ColumnIDs(b model.Block, column int) []string {
	out := make([]string, 0, len(b.Columns[column]))
	for _, x := range b.Columns[column] {
		out = append(out, x.ID)
	}
	return out
}
