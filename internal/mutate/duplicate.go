package mutate

import (
	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
)

// DuplicateResource clones a block or constructor (deeply, with fresh ids for
// every nested node) and places the clone right after the original, in the
// same cell or the same column. It returns the clone's id.
func DuplicateResource(t model.Tree, id string) (model.Tree, string, bool) {
	if loc, ok := locate.FindResourceLocation(t, id); ok {
		c, _, ok := locate.FindCell(t, loc.CellID)
		if !ok || loc.Index >= len(c.Resources) {
			return t, "", false
		}
		clone := model.CloneFresh(c.Resources[loc.Index], locate.IDs(t))
		out, ok := InsertAt(t, loc.RowID, loc.CellID, loc.Index+1, clone)
		if !ok {
			return t, "", false
		}
		return out, clone.ID(), true
	}
	if cl, ok := locate.FindColumnLocation(t, id); ok {
		b, _ := locate.FindBlock(t, id)
		clone := model.CloneFresh(model.BlockResource(b), locate.IDs(t))
		out, ok := InsertIntoColumnAt(t, cl.ColumnsID, cl.Column, cl.Index+1, *clone.Block)
		if !ok {
			return t, "", false
		}
		return out, clone.ID(), true
	}
	return t, "", false
}

// DuplicateRow clones a top-level row and places the copy right after it.
// Constructor rows are duplicated as resources.
func DuplicateRow(t model.Tree, rowID string) (model.Tree, string, bool) {
	for i, r := range t {
		if r.ID != rowID {
			continue
		}
		clone := model.CloneRowFresh(r, locate.IDs(t))
		return insertRow(t, i+1, clone), clone.ID, true
	}
	return DuplicateResource(t, rowID)
}

// DuplicateNode duplicates any row, constructor or block.
func DuplicateNode(t model.Tree, id string) (model.Tree, string, bool) {
	if locate.IsTopLevelRow(t, id) {
		return DuplicateRow(t, id)
	}
	return DuplicateResource(t, id)
}
