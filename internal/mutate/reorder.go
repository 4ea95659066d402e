package mutate

import (
	"strings"

	"lesson-cli/internal/model"
)

// Reorder moves a block within one cell. from and to count blocks only:
// constructors keep their slots and are skipped over. The blocks are pulled
// out, moved, and scattered back into the block slots in their new order.
func Reorder(t model.Tree, cellID string, from, to int) (model.Tree, bool) {
	cellID = strings.TrimSpace(cellID)
	if cellID == "" || from == to {
		return t, false
	}
	return rewriteCell(t, "", cellID, func(c model.Cell) (model.Cell, bool) {
		var slots []int
		var blocks []model.Resource
		for i, res := range c.Resources {
			if res.IsBlock() {
				slots = append(slots, i)
				blocks = append(blocks, res)
			}
		}
		if from < 0 || from >= len(blocks) || to < 0 || to >= len(blocks) {
			return c, false
		}
		blocks = moveElem(blocks, from, to)
		rs := make([]model.Resource, len(c.Resources))
		copy(rs, c.Resources)
		for k, slot := range slots {
			rs[slot] = blocks[k]
		}
		c.Resources = rs
		return c, true
	})
}

// BlockIndex returns the position of a block among the blocks of its cell
// (the index space Reorder works in), or -1.
func BlockIndex(c model.Cell, id string) int {
	n := 0
	for _, res := range c.Resources {
		if !res.IsBlock() {
			continue
		}
		if res.Block.ID == id {
			return n
		}
		n++
	}
	return -1
}

// ReorderColumn moves a block within one column of a columns block.
func ReorderColumn(t model.Tree, columnsID string, column, from, to int) (model.Tree, bool) {
	columnsID = strings.TrimSpace(columnsID)
	if columnsID == "" || from == to {
		return t, false
	}
	return rewriteBlocks(t, func(b model.Block) (model.Block, bool) {
		if b.ID != columnsID || column < 0 || column >= len(b.Columns) {
			return b, false
		}
		col := b.Columns[column]
		if from < 0 || from >= len(col) || to < 0 || to >= len(col) {
			return b, false
		}
		return withColumn(b, column, moveElem(col, from, to)), true
	})
}

func moveElem[T any](xs []T, from, to int) []T {
	out := make([]T, 0, len(xs))
	moved := xs[from]
	for i, x := range xs {
		if i != from {
			out = append(out, x)
		}
	}
	rest := out
	out = make([]T, 0, len(xs))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	return append(out, rest[to:]...)
}
