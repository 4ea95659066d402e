package locate

import "lesson-cli/internal/model"

type NodeKind string

const (
	NodeRow         NodeKind = "row"
	NodeCell        NodeKind = "cell"
	NodeConstructor NodeKind = "constructor"
	NodeBlock       NodeKind = "block"
	NodeColumn      NodeKind = "column"
)

// Node is one entry of a flattened tree, in document order.
// For NodeColumn, ID is the owning columns block and Column the column index.
type Node struct {
	Kind   NodeKind
	ID     string
	Depth  int
	Column int
	Block  *model.Block
	Row    *model.Row
}

// Nodes flattens the tree into display order. Constructors appear once as
// NodeConstructor (their cells follow one level deeper).
func Nodes(t model.Tree) []Node {
	var out []Node
	var walkRow func(r model.Row, depth int, kind NodeKind)
	var walkBlock func(b model.Block, depth int)
	walkBlock = func(b model.Block, depth int) {
		bb := b
		out = append(out, Node{Kind: NodeBlock, ID: b.ID, Depth: depth, Block: &bb})
		for ci, col := range b.Columns {
			out = append(out, Node{Kind: NodeColumn, ID: b.ID, Depth: depth + 1, Column: ci, Block: &bb})
			for _, child := range col {
				walkBlock(child, depth+2)
			}
		}
	}
	walkRow = func(r model.Row, depth int, kind NodeKind) {
		rr := r
		out = append(out, Node{Kind: kind, ID: r.ID, Depth: depth, Row: &rr})
		for _, c := range r.Cells {
			out = append(out, Node{Kind: NodeCell, ID: c.ID, Depth: depth + 1})
			for _, res := range c.Resources {
				switch {
				case res.IsConstructor():
					walkRow(*res.Row, depth+2, NodeConstructor)
				case res.IsBlock():
					walkBlock(*res.Block, depth+2)
				}
			}
		}
	}
	for _, r := range t {
		walkRow(r, 0, NodeRow)
	}
	return out
}

// Blocks returns every block regardless of nesting depth, in document order.
// Columns blocks are listed before their children.
func Blocks(t model.Tree) []model.Block {
	var out []model.Block
	for _, n := range Nodes(t) {
		if n.Kind == NodeBlock {
			out = append(out, *n.Block)
		}
	}
	return out
}

// IDs collects every node id in the tree.
func IDs(t model.Tree) map[string]bool {
	ids := map[string]bool{}
	for _, n := range Nodes(t) {
		if n.Kind == NodeColumn {
			continue
		}
		ids[n.ID] = true
	}
	return ids
}

// DuplicateIDs lists ids that appear more than once. A valid tree returns nil.
func DuplicateIDs(t model.Tree) []string {
	seen := map[string]int{}
	var dups []string
	for _, n := range Nodes(t) {
		if n.Kind == NodeColumn {
			continue
		}
		seen[n.ID]++
		if seen[n.ID] == 2 {
			dups = append(dups, n.ID)
		}
	}
	return dups
}

// Contains reports whether any node in the tree has the given id.
func Contains(t model.Tree, id string) bool {
	if id == "" {
		return false
	}
	for _, n := range Nodes(t) {
		if n.Kind != NodeColumn && n.ID == id {
			return true
		}
	}
	return false
}

// Count returns how many nodes carry the given id (1 in a valid tree when present).
func Count(t model.Tree, id string) int {
	n := 0
	for _, x := range Nodes(t) {
		if x.Kind != NodeColumn && x.ID == id {
			n++
		}
	}
	return n
}
