// Package locate holds read-only traversals over a lesson tree.
//
// Every search is depth-first and pre-order: rows in order, cells in order,
// resources in order, and a constructor is visited before its own contents.
// The first match wins. Nothing here mutates its input, and a missing id is
// reported as (zero, false), never as an error.
package locate

import (
	"strings"

	"lesson-cli/internal/model"
)

// Location addresses a resource slot inside a cell. RowID is the row that owns
// the cell, which is a constructor row when the cell is nested.
type Location struct {
	RowID  string `json:"rowId"`
	CellID string `json:"cellId"`
	Index  int    `json:"index"`
}

// ColumnLocation addresses a block slot inside a columns block.
type ColumnLocation struct {
	ColumnsID string `json:"columnsId"`
	Column    int    `json:"column"`
	Index     int    `json:"index"`
}

type visitFunc func(loc Location, res model.Resource) bool

func walkTree(t model.Tree, fn visitFunc) bool {
	for _, r := range t {
		if walkRow(r, fn) {
			return true
		}
	}
	return false
}

func walkRow(r model.Row, fn visitFunc) bool {
	for _, c := range r.Cells {
		for i, res := range c.Resources {
			if fn(Location{RowID: r.ID, CellID: c.ID, Index: i}, res) {
				return true
			}
			if res.IsConstructor() && walkRow(*res.Row, fn) {
				return true
			}
		}
	}
	return false
}

// FindBlock finds a block anywhere: in cells, in nested constructors, and in
// every column of columns blocks.
func FindBlock(t model.Tree, id string) (model.Block, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Block{}, false
	}
	var out model.Block
	found := walkTree(t, func(_ Location, res model.Resource) bool {
		if !res.IsBlock() {
			return false
		}
		if res.Block.ID == id {
			out = *res.Block
			return true
		}
		if b, _, ok := findInColumns(*res.Block, id); ok {
			out = b
			return true
		}
		return false
	})
	return out, found
}

// FindLocation returns the cell address of a block. Blocks living inside a
// columns block are not reported; use FindColumnLocation for those.
func FindLocation(t model.Tree, id string) (Location, bool) {
	return findSlot(t, id, false)
}

// FindResourceLocation is FindLocation but also matches constructors.
func FindResourceLocation(t model.Tree, id string) (Location, bool) {
	return findSlot(t, id, true)
}

func findSlot(t model.Tree, id string, constructors bool) (Location, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Location{}, false
	}
	var out Location
	found := walkTree(t, func(loc Location, res model.Resource) bool {
		if res.ID() != id {
			return false
		}
		if res.IsBlock() || (constructors && res.IsConstructor()) {
			out = loc
			return true
		}
		return false
	})
	return out, found
}

// FindColumnLocation finds a block that lives inside a columns block.
func FindColumnLocation(t model.Tree, id string) (ColumnLocation, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ColumnLocation{}, false
	}
	var out ColumnLocation
	found := walkTree(t, func(_ Location, res model.Resource) bool {
		if !res.IsBlock() {
			return false
		}
		if _, cl, ok := findInColumns(*res.Block, id); ok {
			out = cl
			return true
		}
		return false
	})
	return out, found
}

func findInColumns(b model.Block, id string) (model.Block, ColumnLocation, bool) {
	for ci, col := range b.Columns {
		for i, child := range col {
			if child.ID == id {
				return child, ColumnLocation{ColumnsID: b.ID, Column: ci, Index: i}, true
			}
			if child.IsColumns() {
				if found, cl, ok := findInColumns(child, id); ok {
					return found, cl, true
				}
			}
		}
	}
	return model.Block{}, ColumnLocation{}, false
}

// FindRow finds a top-level row or a constructor row.
func FindRow(t model.Tree, id string) (model.Row, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Row{}, false
	}
	for _, r := range t {
		if r.ID == id {
			return r, true
		}
	}
	var out model.Row
	found := walkTree(t, func(_ Location, res model.Resource) bool {
		if res.IsConstructor() && res.Row.ID == id {
			out = *res.Row
			return true
		}
		return false
	})
	return out, found
}

// IsTopLevelRow reports whether id names one of the document's own rows.
func IsTopLevelRow(t model.Tree, id string) bool {
	for _, r := range t {
		if r.ID == id {
			return true
		}
	}
	return false
}

// FindCell finds a cell and the id of the row that owns it.
func FindCell(t model.Tree, id string) (model.Cell, string, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Cell{}, "", false
	}
	var (
		out   model.Cell
		owner string
	)
	var inRow func(r model.Row) bool
	inRow = func(r model.Row) bool {
		for _, c := range r.Cells {
			if c.ID == id {
				out, owner = c, r.ID
				return true
			}
			for _, res := range c.Resources {
				if res.IsConstructor() && inRow(*res.Row) {
					return true
				}
			}
		}
		return false
	}
	for _, r := range t {
		if inRow(r) {
			return out, owner, true
		}
	}
	return model.Cell{}, "", false
}
