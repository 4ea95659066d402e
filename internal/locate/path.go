package locate

import (
	"strings"

	"lesson-cli/internal/model"
)

type ContainerKind string

const (
	ContainerRow    ContainerKind = "row"
	ContainerCell   ContainerKind = "cell"
	ContainerColumn ContainerKind = "column"
)

// Container is one link of a path. Column is only meaningful for ContainerColumn,
// whose ID is the columns block id.
type Container struct {
	Kind   ContainerKind `json:"kind"`
	ID     string        `json:"id"`
	Column int           `json:"column,omitempty"`
}

// Path is the container chain from the document root down to (not including) a node.
type Path []Container

// Parent returns the innermost container, if any.
func (p Path) Parent() (Container, bool) {
	if len(p) == 0 {
		return Container{}, false
	}
	return p[len(p)-1], true
}

// Has reports whether the path passes through the container with the given id.
func (p Path) Has(id string) bool {
	for _, c := range p {
		if c.ID == id {
			return true
		}
	}
	return false
}

// FindPath returns the container chain leading to any node id: rows, cells,
// constructors, blocks, and blocks inside columns. A top-level row has an empty path.
func FindPath(t model.Tree, id string) (Path, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	for _, r := range t {
		if p, ok := pathInRow(r, id, Path{}); ok {
			return p, true
		}
	}
	return nil, false
}

func pathInRow(r model.Row, id string, prefix Path) (Path, bool) {
	if r.ID == id {
		return prefix, true
	}
	rowPath := appendPath(prefix, Container{Kind: ContainerRow, ID: r.ID})
	for _, c := range r.Cells {
		if c.ID == id {
			return rowPath, true
		}
		cellPath := appendPath(rowPath, Container{Kind: ContainerCell, ID: c.ID})
		for _, res := range c.Resources {
			switch {
			case res.IsConstructor():
				if p, ok := pathInRow(*res.Row, id, cellPath); ok {
					return p, true
				}
			case res.IsBlock():
				if p, ok := pathInBlock(*res.Block, id, cellPath); ok {
					return p, true
				}
			}
		}
	}
	return nil, false
}

func pathInBlock(b model.Block, id string, prefix Path) (Path, bool) {
	if b.ID == id {
		return prefix, true
	}
	for ci, col := range b.Columns {
		colPath := appendPath(prefix, Container{Kind: ContainerColumn, ID: b.ID, Column: ci})
		for _, child := range col {
			if p, ok := pathInBlock(child, id, colPath); ok {
				return p, true
			}
		}
	}
	return nil, false
}

// appendPath never aliases prefix, so sibling branches can't overwrite each other.
func appendPath(prefix Path, c Container) Path {
	out := make(Path, 0, len(prefix)+1)
	out = append(out, prefix...)
	return append(out, c)
}
