package mutate

import "fmt"

// Destination says where MoveResource puts a node. The set is closed:
// CellPosition, After, Before, ColumnSlot, AppendToLast, NewRowAfter.
type Destination interface {
	isDestination()
	String() string
}

// CellPosition is an explicit slot in a cell. Index counts resources in the
// cell as it looks after the moved node has been taken out.
type CellPosition struct {
	RowID  string
	CellID string
	Index  int
}

// After places the node right after an anchor resource (in a cell or a column).
type After struct {
	AnchorID string
}

// Before places the node right before an anchor resource.
type Before struct {
	AnchorID string
}

// ColumnSlot appends the node to one column of a columns block. Only blocks fit.
type ColumnSlot struct {
	ColumnsID string
	Column    int
}

// AppendToLast is the empty-canvas fallback: the first cell of the last row.
type AppendToLast struct{}

// NewRowAfter wraps the node in a fresh row after RowID ("" = end of document).
type NewRowAfter struct {
	RowID string
}

func (CellPosition) isDestination() {}
func (After) isDestination()        {}
func (Before) isDestination()       {}
func (ColumnSlot) isDestination()   {}
func (AppendToLast) isDestination() {}
func (NewRowAfter) isDestination()  {}

func (d CellPosition) String() string {
	return fmt.Sprintf("cell %s/%s@%d", d.RowID, d.CellID, d.Index)
}
func (d After) String() string      { return "after " + d.AnchorID }
func (d Before) String() string     { return "before " + d.AnchorID }
func (d ColumnSlot) String() string { return fmt.Sprintf("column %s:%d", d.ColumnsID, d.Column) }
func (AppendToLast) String() string { return "append-to-last" }
func (d NewRowAfter) String() string {
	if d.RowID == "" {
		return "new row at end"
	}
	return "new row after " + d.RowID
}
