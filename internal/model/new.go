package model

// DefaultColumns is the column count of a columns block or layout created without an explicit count.
const DefaultColumns = 2

// The constructors below draw every id with FreshID against taken, which is
// updated in place. Pass the ids of the tree the node will join; nil skips the
// collision check.

func NewCell(taken map[string]bool) Cell {
	return Cell{ID: FreshID(PrefixCell, taken), Resources: []Resource{}}
}

// NewRow returns a row holding one empty cell.
func NewRow(taken map[string]bool) Row {
	return Row{ID: FreshID(PrefixRow, taken), Cells: []Cell{NewCell(taken)}}
}

// NewEmptyStateRow returns a placeholder row. Cleanup never removes it.
func NewEmptyStateRow(taken map[string]bool) Row {
	r := NewRow(taken)
	r.EmptyState = true
	return r
}

// NewRowWith returns a fresh row whose single cell holds res.
func NewRowWith(res Resource, taken map[string]bool) Row {
	r := NewRow(taken)
	r.Cells[0].Resources = append(r.Cells[0].Resources, res)
	return r
}

func NewBlock(t BlockType, taken map[string]bool) Block {
	if t == BlockColumns {
		return NewColumnsBlock(DefaultColumns, taken)
	}
	return Block{ID: FreshID(PrefixBlock, taken), Type: t}
}

func NewColumnsBlock(n int, taken map[string]bool) Block {
	if n < 1 {
		n = 1
	}
	cols := make([][]Block, n)
	for i := range cols {
		cols[i] = []Block{}
	}
	return Block{ID: FreshID(PrefixBlock, taken), Type: BlockColumns, Columns: cols}
}

// NewConstructor returns a nested layout: a row with n empty cells wrapped as a resource.
func NewConstructor(n int, taken map[string]bool) Resource {
	if n < 1 {
		n = 1
	}
	r := Row{ID: FreshID(PrefixRow, taken), Cells: make([]Cell, 0, n)}
	for i := 0; i < n; i++ {
		r.Cells = append(r.Cells, NewCell(taken))
	}
	return ConstructorResource(r)
}
