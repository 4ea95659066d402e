// Package cleanup normalizes a tree after structural edits.
package cleanup

import (
	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
)

// PruneEmpty drops structural debris anywhere in the document:
//   - cells with no resources,
//   - constructors whose row ends up with no cells,
//   - top-level rows that end up with no cells.
//
// Empty-state rows are kept as they are, cells included. A container listed
// in protected (typically the current selection) is left untouched along with
// everything inside it, and a row still holding a protected cell is not empty.
//
// The input is not modified; untouched rows are shared with the result.
func PruneEmpty(t model.Tree, protected ...string) model.Tree {
	p := pruner{keep: idSet(protected)}
	return p.prune(t)
}

// PruneSource is the cleanup that follows a delete or a move: only the
// containers on path, the chain that held the node before it left, are
// candidates. The destination side and unrelated empty containers stay.
// Protection works as in PruneEmpty.
func PruneSource(t model.Tree, path locate.Path, protected ...string) model.Tree {
	scope := map[string]bool{}
	for _, c := range path {
		// Columns belong to their block and are never pruned.
		if c.Kind != locate.ContainerColumn {
			scope[c.ID] = true
		}
	}
	if len(scope) == 0 {
		return t
	}
	p := pruner{keep: idSet(protected), scope: scope}
	return p.prune(t)
}

func idSet(ids []string) map[string]bool {
	set := map[string]bool{}
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}
	return set
}

type pruner struct {
	keep map[string]bool
	// scope limits pruning to these container ids; nil means everywhere.
	scope map[string]bool
}

// candidate reports whether the container may be pruned or descended into.
func (p pruner) candidate(id string) bool {
	if p.keep[id] {
		return false
	}
	return p.scope == nil || p.scope[id]
}

func (p pruner) prune(t model.Tree) model.Tree {
	var out model.Tree
	changed := false
	for i, r := range t {
		if r.EmptyState {
			if changed {
				out = append(out, r)
			}
			continue
		}
		nr, rowChanged := p.pruneRow(r)
		drop := len(nr.Cells) == 0 && p.candidate(r.ID)
		if (rowChanged || drop) && !changed {
			changed = true
			out = make(model.Tree, 0, len(t))
			out = append(out, t[:i]...)
		}
		if drop {
			continue
		}
		if changed {
			out = append(out, nr)
		}
	}
	if !changed {
		return t
	}
	return out
}

// pruneRow prunes a row's cells (recursing into constructors). It reports
// whether anything was removed at any depth.
func (p pruner) pruneRow(r model.Row) (model.Row, bool) {
	if !p.candidate(r.ID) {
		return r, false
	}
	changed := false
	cells := make([]model.Cell, 0, len(r.Cells))
	for _, c := range r.Cells {
		if !p.candidate(c.ID) {
			cells = append(cells, c)
			continue
		}
		nc, cellChanged := p.pruneCell(c)
		if cellChanged {
			changed = true
		}
		if len(nc.Resources) == 0 {
			changed = true
			continue
		}
		cells = append(cells, nc)
	}
	if !changed {
		return r, false
	}
	r.Cells = cells
	return r, true
}

func (p pruner) pruneCell(c model.Cell) (model.Cell, bool) {
	changed := false
	rs := make([]model.Resource, 0, len(c.Resources))
	for _, res := range c.Resources {
		if !res.IsConstructor() {
			rs = append(rs, res)
			continue
		}
		nr, rowChanged := p.pruneRow(*res.Row)
		if rowChanged {
			changed = true
		}
		if len(nr.Cells) == 0 && p.candidate(nr.ID) {
			changed = true
			continue
		}
		if rowChanged {
			rs = append(rs, model.ConstructorResource(nr))
		} else {
			rs = append(rs, res)
		}
	}
	if !changed {
		return c, false
	}
	c.Resources = rs
	return c, true
}
