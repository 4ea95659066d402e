package mutate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lesson-cli/internal/cleanup"
	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
	m "lesson-cli/internal/model/modeltest"
)

func cellOf(t *testing.T, tr model.Tree, id string) model.Cell {
	t.Helper()
	c, _, ok := locate.FindCell(tr, id)
	require.True(t, ok, "cell %s", id)
	return c
}

func twoRows() model.Tree {
	return m.Tree(
		m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"), m.Blk("blk-b"))),
		m.Row("row-2", m.Cell("cell-2", m.Blk("blk-c"))),
	)
}

func TestInsertAt_SharesUntouchedSiblings(t *testing.T) {
	tr := twoRows()
	out, ok := InsertAt(tr, "row-1", "cell-1", 1, m.Blk("blk-new"))
	require.True(t, ok)

	assert.Equal(t, []string{"blk-a", "blk-new", "blk-b"}, m.ResourceIDs(cellOf(t, out, "cell-1")))
	assert.Equal(t, []string{"blk-a", "blk-b"}, m.ResourceIDs(cellOf(t, tr, "cell-1")), "input must not change")

	// row-2 was not on the edited path: it is the same value, cells included.
	assert.Same(t, &tr[1].Cells[0], &out[1].Cells[0])
	assert.Same(t, tr[0].Cells[0].Resources[0].Block, out[0].Cells[0].Resources[0].Block)
}

func TestInsertAt_ClampsIndexAndChecksRow(t *testing.T) {
	tr := twoRows()
	out, ok := InsertAt(tr, "", "cell-2", 99, m.Blk("blk-x"))
	require.True(t, ok)
	assert.Equal(t, []string{"blk-c", "blk-x"}, m.ResourceIDs(cellOf(t, out, "cell-2")))

	out, ok = InsertAt(tr, "", "cell-2", -5, m.Blk("blk-x"))
	require.True(t, ok)
	assert.Equal(t, []string{"blk-x", "blk-c"}, m.ResourceIDs(cellOf(t, out, "cell-2")))

	_, ok = InsertAt(tr, "row-1", "cell-2", 0, m.Blk("blk-x"))
	assert.False(t, ok, "cell-2 is not in row-1")
	_, ok = InsertAt(tr, "", "cell-missing", 0, m.Blk("blk-x"))
	assert.False(t, ok)
}

func TestInsertAfterBefore(t *testing.T) {
	tr := twoRows()
	out, ok := InsertAfter(tr, "blk-a", m.Blk("blk-x"))
	require.True(t, ok)
	assert.Equal(t, []string{"blk-a", "blk-x", "blk-b"}, m.ResourceIDs(cellOf(t, out, "cell-1")))

	out, ok = InsertBefore(tr, "blk-a", m.Blk("blk-x"))
	require.True(t, ok)
	assert.Equal(t, []string{"blk-x", "blk-a", "blk-b"}, m.ResourceIDs(cellOf(t, out, "cell-1")))

	out, ok = InsertAfter(tr, "nope", m.Blk("blk-x"))
	assert.False(t, ok)
	assert.Equal(t, tr, out)
}

func TestAppendToLastCell(t *testing.T) {
	out := AppendToLastCell(nil, m.Blk("blk-x"))
	require.Len(t, out, 1)
	require.Len(t, out[0].Cells, 1)
	assert.Equal(t, []string{"blk-x"}, m.ResourceIDs(out[0].Cells[0]))

	out = AppendToLastCell(twoRows(), m.Blk("blk-x"))
	assert.Equal(t, []string{"blk-c", "blk-x"}, m.ResourceIDs(cellOf(t, out, "cell-2")))

	out = AppendToLastCell(m.Tree(m.Row("row-bare")), m.Blk("blk-x"))
	require.Len(t, out[0].Cells, 1)
	assert.Equal(t, []string{"blk-x"}, m.ResourceIDs(out[0].Cells[0]))
}

func TestInsertNewRowAfter(t *testing.T) {
	out, ok := InsertNewRowAfter(twoRows(), "row-1", m.Blk("blk-x"))
	require.True(t, ok)
	require.Len(t, out, 3)
	assert.Equal(t, "row-1", out[0].ID)
	assert.Equal(t, []string{"blk-x"}, m.ResourceIDs(out[1].Cells[0]))
	assert.Equal(t, "row-2", out[2].ID)

	nested := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Con("row-k", m.Cell("cell-k", m.Blk("blk-a"))))))
	out, ok = InsertNewRowAfter(nested, "row-k", m.Blk("blk-x"))
	require.True(t, ok)
	rs := cellOf(t, out, "cell-1").Resources
	require.Len(t, rs, 2)
	assert.True(t, rs[1].IsConstructor())
	assert.Equal(t, []string{"blk-x"}, m.ResourceIDs(rs[1].Row.Cells[0]))

	_, ok = InsertNewRowAfter(nested, "row-missing", m.Blk("blk-x"))
	assert.False(t, ok)
}

func TestInsertIntoColumn(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Columns("blk-cols", []string{"blk-a"}, []string{}))))

	out, ok := InsertIntoColumn(tr, "blk-cols", 1, model.Block{ID: "blk-x", Type: model.BlockText})
	require.True(t, ok)
	cols, _ := locate.FindBlock(out, "blk-cols")
	assert.Equal(t, []string{"blk-x"}, m.ColumnIDs(cols, 1))
	assert.Equal(t, []string{"blk-a"}, m.ColumnIDs(cols, 0))

	_, ok = InsertIntoColumn(tr, "blk-cols", 2, model.Block{ID: "blk-x"})
	assert.False(t, ok, "column out of range")
	_, ok = InsertIntoColumn(tr, "blk-a", 0, model.Block{ID: "blk-x"})
	assert.False(t, ok, "not a columns block")

	out, ok = InsertAfter(tr, "blk-a", m.Blk("blk-y"))
	require.True(t, ok)
	cols, _ = locate.FindBlock(out, "blk-cols")
	assert.Equal(t, []string{"blk-a", "blk-y"}, m.ColumnIDs(cols, 0))

	_, ok = InsertAfter(tr, "blk-a", model.NewConstructor(2, nil))
	assert.False(t, ok, "constructors don't go into columns")
}

func TestDeleteResource_CascadesEmptyConstructors(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1",
		m.Blk("blk-a"),
		m.Con("row-k", m.Cell("cell-k1", m.Con("row-kk", m.Cell("cell-kk", m.Blk("blk-deep")))), m.Cell("cell-k2")),
	)))

	out, ok := DeleteResource(tr, "blk-deep")
	require.True(t, ok)
	assert.False(t, locate.Contains(out, "row-kk"), "inner constructor emptied")
	assert.False(t, locate.Contains(out, "row-k"), "outer constructor emptied too")
	assert.Equal(t, []string{"blk-a"}, m.ResourceIDs(cellOf(t, out, "cell-1")))
	assert.True(t, locate.Contains(tr, "blk-deep"), "input must not change")
}

func TestDeleteResource_KeepsConstructorWithContent(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1",
		m.Con("row-k", m.Cell("cell-k1", m.Blk("blk-a")), m.Cell("cell-k2", m.Blk("blk-b"))),
	)))
	out, ok := DeleteResource(tr, "blk-a")
	require.True(t, ok)
	assert.True(t, locate.Contains(out, "row-k"))
	assert.Empty(t, cellOf(t, out, "cell-k1").Resources, "empty cells are left for cleanup")
}

func TestDeleteNode_AllKinds(t *testing.T) {
	tr := m.Tree(
		m.Row("row-1", m.Cell("cell-1", m.Columns("blk-cols", []string{"blk-a"})), m.Cell("cell-x", m.Blk("blk-x"))),
		m.Row("row-2", m.Cell("cell-2", m.Blk("blk-c"))),
	)

	out, ok := DeleteNode(tr, "row-2")
	require.True(t, ok)
	assert.Len(t, out, 1)

	out, ok = DeleteNode(tr, "cell-x")
	require.True(t, ok)
	assert.False(t, locate.Contains(out, "blk-x"))
	assert.Len(t, out[0].Cells, 1)

	out, ok = DeleteNode(tr, "blk-a")
	require.True(t, ok)
	cols, _ := locate.FindBlock(out, "blk-cols")
	assert.Empty(t, cols.Columns[0])

	_, ok = DeleteNode(tr, "nope")
	assert.False(t, ok)
}

func TestDuplicateResource_SiblingWithFreshIDs(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1",
		m.Blk("blk-a"),
		m.Con("row-k", m.Cell("cell-k", m.Blk("blk-b"))),
	)))

	out, newID, ok := DuplicateResource(tr, "row-k")
	require.True(t, ok)
	ids := m.ResourceIDs(cellOf(t, out, "cell-1"))
	require.Len(t, ids, 3)
	assert.Equal(t, newID, ids[2])
	assert.NotEqual(t, "row-k", newID)
	assert.Nil(t, locate.DuplicateIDs(out))
	assert.Equal(t, len(locate.Nodes(tr))+3, len(locate.Nodes(out)), "row, cell and block cloned")

	dupCols := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Columns("blk-cols", []string{"blk-a", "blk-b"}))))
	out, newID, ok = DuplicateResource(dupCols, "blk-a")
	require.True(t, ok)
	cols, _ := locate.FindBlock(out, "blk-cols")
	assert.Equal(t, []string{"blk-a", newID, "blk-b"}, m.ColumnIDs(cols, 0))
}

func TestDuplicateRow(t *testing.T) {
	out, newID, ok := DuplicateNode(twoRows(), "row-1")
	require.True(t, ok)
	require.Len(t, out, 3)
	assert.Equal(t, newID, out[1].ID)
	assert.Len(t, out[1].Cells[0].Resources, 2)
	assert.Nil(t, locate.DuplicateIDs(out))
}

func TestReorder_PinsConstructors(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1",
		m.Blk("blk-1"), m.Con("row-k", m.Cell("cell-k", m.Blk("blk-in"))), m.Blk("blk-2"), m.Blk("blk-3"),
	)))

	out, ok := Reorder(tr, "cell-1", 0, 2)
	require.True(t, ok)
	assert.Equal(t, []string{"blk-2", "row-k", "blk-3", "blk-1"}, m.ResourceIDs(cellOf(t, out, "cell-1")))

	_, ok = Reorder(tr, "cell-1", 0, 3)
	assert.False(t, ok, "index counts blocks only")
	_, ok = Reorder(tr, "cell-1", 1, 1)
	assert.False(t, ok)
}

func TestReorder_IsStableForOthers(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("a"), m.Blk("b"), m.Blk("c"), m.Blk("d"))))
	out, ok := Reorder(tr, "cell-1", 3, 1)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "d", "b", "c"}, m.ResourceIDs(cellOf(t, out, "cell-1")))
}

func TestReorderColumn(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Columns("blk-cols", []string{"a", "b", "c"}))))
	out, ok := ReorderColumn(tr, "blk-cols", 0, 0, 2)
	require.True(t, ok)
	cols, _ := locate.FindBlock(out, "blk-cols")
	assert.Equal(t, []string{"b", "c", "a"}, m.ColumnIDs(cols, 0))
}

func TestMoveResource_AcrossCellsThenPrune(t *testing.T) {
	tr := m.Tree(
		m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"))),
		m.Row("row-2", m.Cell("cell-2", m.Blk("blk-b"))),
	)

	out, ok := MoveResource(tr, "blk-a", After{AnchorID: "blk-b"})
	require.True(t, ok)
	assert.Equal(t, []string{"blk-b", "blk-a"}, m.ResourceIDs(cellOf(t, out, "cell-2")))
	assert.Equal(t, 1, locate.Count(out, "blk-a"))
	assert.Empty(t, cellOf(t, out, "cell-1").Resources)

	pruned := cleanup.PruneEmpty(out, "blk-a")
	require.Len(t, pruned, 1)
	assert.Equal(t, "row-2", pruned[0].ID)
}

func TestMoveResource_IntoItselfIsRefused(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1",
		m.Con("row-k", m.Cell("cell-k", m.Blk("blk-in"))),
	)))
	out, ok := MoveResource(tr, "row-k", After{AnchorID: "blk-in"})
	assert.False(t, ok)
	assert.Equal(t, tr, out)

	out, ok = MoveResource(tr, "row-k", CellPosition{CellID: "cell-k"})
	assert.False(t, ok)
	assert.Equal(t, tr, out)
}

func TestMoveResource_Destinations(t *testing.T) {
	tr := m.Tree(
		m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"), m.Blk("blk-b"))),
		m.Row("row-2", m.Cell("cell-2", m.Columns("blk-cols", []string{}, []string{}))),
	)

	out, ok := MoveResource(tr, "blk-a", ColumnSlot{ColumnsID: "blk-cols", Column: 1})
	require.True(t, ok)
	cols, _ := locate.FindBlock(out, "blk-cols")
	assert.Equal(t, []string{"blk-a"}, m.ColumnIDs(cols, 1))

	out, ok = MoveResource(tr, "blk-a", NewRowAfter{})
	require.True(t, ok)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"blk-a"}, m.ResourceIDs(out[2].Cells[0]))

	out, ok = MoveResource(tr, "blk-a", AppendToLast{})
	require.True(t, ok)
	assert.Equal(t, []string{"blk-cols", "blk-a"}, m.ResourceIDs(cellOf(t, out, "cell-2")))

	out, ok = MoveResource(tr, "blk-b", CellPosition{RowID: "row-1", CellID: "cell-1", Index: 0})
	require.True(t, ok)
	assert.Equal(t, []string{"blk-b", "blk-a"}, m.ResourceIDs(cellOf(t, out, "cell-1")))

	out, ok = MoveResource(tr, "blk-cols", Before{AnchorID: "blk-a"})
	require.True(t, ok)
	assert.Equal(t, []string{"blk-cols", "blk-a", "blk-b"}, m.ResourceIDs(cellOf(t, out, "cell-1")))

	_, ok = MoveResource(tr, "blk-a", nil)
	assert.False(t, ok)
	_, ok = MoveResource(tr, "missing", AppendToLast{})
	assert.False(t, ok)
}

func TestMoveResource_ConstructorIntoColumnIsRefused(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1",
		m.Con("row-k", m.Cell("cell-k", m.Blk("blk-a"))),
		m.Columns("blk-cols", []string{}),
	)))
	out, ok := MoveResource(tr, "row-k", ColumnSlot{ColumnsID: "blk-cols", Column: 0})
	assert.False(t, ok)
	assert.Equal(t, tr, out)
}

func TestSetBlockContent(t *testing.T) {
	title := "Intro"
	out, ok := SetBlockContent(twoRows(), "blk-c", &title, json.RawMessage(`{"html":"<p>hi</p>"}`))
	require.True(t, ok)
	b, _ := locate.FindBlock(out, "blk-c")
	assert.Equal(t, "Intro", b.Title)
	assert.JSONEq(t, `{"html":"<p>hi</p>"}`, string(b.Payload))

	_, ok = SetBlockContent(twoRows(), "blk-c", nil, nil)
	assert.False(t, ok)
}

func TestDestination_String(t *testing.T) {
	assert.Equal(t, "after blk-a", After{AnchorID: "blk-a"}.String())
	assert.Equal(t, "new row at end", NewRowAfter{}.String())
	assert.Equal(t, "column blk-c:1", ColumnSlot{ColumnsID: "blk-c", Column: 1}.String())
}
