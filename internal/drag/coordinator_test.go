package drag

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
	m "lesson-cli/internal/model/modeltest"
)

func newCoordinator() *Coordinator {
	return NewCoordinator(zerolog.Nop())
}

func cellIDs(t *testing.T, tr model.Tree, id string) []string {
	t.Helper()
	c, _, ok := locate.FindCell(tr, id)
	require.True(t, ok, "cell %s", id)
	return m.ResourceIDs(c)
}

func TestDragEnd_PaletteOnEmptyCanvas(t *testing.T) {
	c := newCoordinator()
	c.DragStart(FromPalette(PaletteItem{Type: model.BlockText}))
	require.Equal(t, Dragging, c.State())

	r := c.DragEnd(nil, Canvas())
	require.True(t, r.Changed)
	assert.Equal(t, PolicyCanvas, r.Policy)
	require.Len(t, r.Tree, 1)
	require.Len(t, r.Tree[0].Cells, 1)
	require.Len(t, r.Tree[0].Cells[0].Resources, 1)
	b := r.Tree[0].Cells[0].Resources[0]
	assert.Equal(t, b.ID(), r.Selection)
	assert.Equal(t, model.BlockText, b.Block.Type)
	assert.Equal(t, Idle, c.State())
}

func TestDragEnd_PaletteLayoutOnCanvasBecomesRow(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"))))
	c := newCoordinator()
	c.DragStart(FromPalette(PaletteItem{Layout: true, Columns: 3}))

	r := c.DragEnd(tr, Canvas())
	require.True(t, r.Changed)
	require.Len(t, r.Tree, 2)
	assert.Equal(t, r.Selection, r.Tree[1].ID)
	assert.Len(t, r.Tree[1].Cells, 3)
}

func TestDragEnd_PaletteOverBlockInsertsBefore(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"), m.Blk("blk-b"))))
	c := newCoordinator()
	c.DragStart(FromPalette(PaletteItem{Type: model.BlockQuiz}))

	r := c.DragEnd(tr, Over("blk-b"))
	require.True(t, r.Changed)
	assert.Equal(t, PolicyResource, r.Policy)
	assert.Equal(t, []string{"blk-a", r.Selection, "blk-b"}, cellIDs(t, r.Tree, "cell-1"))
}

func TestDragEnd_ExistingAcrossCellsMovesAfterAndPrunes(t *testing.T) {
	tr := m.Tree(
		m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"))),
		m.Row("row-2", m.Cell("cell-2", m.Blk("blk-b"))),
	)
	c := newCoordinator()
	c.DragStart(Existing("blk-a"))

	r := c.DragEnd(tr, Over("blk-b"))
	require.True(t, r.Changed)
	assert.Equal(t, "blk-a", r.Selection)
	require.Len(t, r.Tree, 1, "the emptied row is cleaned up")
	assert.Equal(t, []string{"blk-b", "blk-a"}, cellIDs(t, r.Tree, "cell-2"))
	assert.Equal(t, 1, locate.Count(r.Tree, "blk-a"))
}

func TestDragOver_PreviewThenDropCommitsOnce(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("a"), m.Blk("b"), m.Blk("c"))))
	c := newCoordinator()
	c.DragStart(Existing("a"))

	p := c.DragOver(tr, "c")
	require.True(t, p.Changed)
	assert.Equal(t, PolicyReorder, p.Policy)
	assert.Equal(t, []string{"b", "c", "a"}, cellIDs(t, p.Tree, "cell-1"))

	r := c.DragEnd(p.Tree, Over("c"))
	require.True(t, r.Changed)
	assert.Equal(t, PolicyReorder, r.Policy)
	assert.Equal(t, []string{"b", "c", "a"}, cellIDs(t, r.Tree, "cell-1"))
}

func TestDragEnd_SameCellWithoutPreviewReorders(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("a"), m.Blk("b"), m.Blk("c"))))
	c := newCoordinator()
	c.DragStart(Existing("c"))

	r := c.DragEnd(tr, Over("a"))
	require.True(t, r.Changed)
	assert.Equal(t, PolicyReorder, r.Policy)
	assert.Equal(t, []string{"c", "a", "b"}, cellIDs(t, r.Tree, "cell-1"))
}

func TestDragOver_CrossContainerDoesNothing(t *testing.T) {
	tr := m.Tree(
		m.Row("row-1", m.Cell("cell-1", m.Blk("a"))),
		m.Row("row-2", m.Cell("cell-2", m.Blk("b"))),
	)
	c := newCoordinator()
	c.DragStart(Existing("a"))
	r := c.DragOver(tr, "b")
	assert.False(t, r.Changed)
	assert.Equal(t, Dragging, c.State())
}

func TestDragEnd_ColumnTarget(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"), m.Columns("blk-cols", []string{}, []string{}))))
	c := newCoordinator()
	c.DragStart(Existing("blk-a"))

	r := c.DragEnd(tr, IntoColumn("blk-cols", 1))
	require.True(t, r.Changed)
	assert.Equal(t, PolicyColumn, r.Policy)
	cols, ok := locate.FindBlock(r.Tree, "blk-cols")
	require.True(t, ok)
	assert.Equal(t, []string{"blk-a"}, m.ColumnIDs(cols, 1))
}

func TestDragEnd_CellAndRowTargetsAppend(t *testing.T) {
	tr := m.Tree(
		m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"))),
		m.Row("row-2", m.Cell("cell-2", m.Blk("blk-b"))),
	)
	c := newCoordinator()
	c.DragStart(FromPalette(PaletteItem{Type: model.BlockHeader}))
	r := c.DragEnd(tr, Over("cell-2"))
	require.True(t, r.Changed)
	assert.Equal(t, []string{"blk-b", r.Selection}, cellIDs(t, r.Tree, "cell-2"))

	c.DragStart(FromPalette(PaletteItem{Type: model.BlockHeader}))
	r = c.DragEnd(tr, Over("row-1"))
	require.True(t, r.Changed)
	assert.Equal(t, []string{"blk-a", r.Selection}, cellIDs(t, r.Tree, "cell-1"))
}

func TestDragEnd_NothingHoveredAppendsToLast(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"))))
	c := newCoordinator()
	c.DragStart(FromPalette(PaletteItem{Type: model.BlockImage}))
	r := c.DragEnd(tr, Target{})
	require.True(t, r.Changed)
	assert.Equal(t, PolicyFallback, r.Policy)
	assert.Equal(t, []string{"blk-a", r.Selection}, cellIDs(t, r.Tree, "cell-1"))
}

func TestDragEnd_StaleIDsAreNoOps(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"))))

	c := newCoordinator()
	c.DragStart(FromPalette(PaletteItem{Type: model.BlockText}))
	r := c.DragEnd(tr, Over("gone"))
	assert.False(t, r.Changed)
	assert.Equal(t, tr, r.Tree)
	assert.Equal(t, Idle, c.State())

	c.DragStart(Existing("gone"))
	r = c.DragEnd(tr, Over("blk-a"))
	assert.False(t, r.Changed)
	assert.Equal(t, Idle, c.State())

	r = c.DragEnd(tr, Over("blk-a"))
	assert.False(t, r.Changed, "no gesture in progress")
}

func TestDragEnd_DropOnSelfIsNoOp(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"))))
	c := newCoordinator()
	c.DragStart(Existing("blk-a"))
	r := c.DragEnd(tr, Over("blk-a"))
	assert.False(t, r.Changed)
}

func TestCancel_ResetsState(t *testing.T) {
	c := newCoordinator()
	c.DragStart(Existing("blk-a"))
	_, ok := c.Active()
	require.True(t, ok)
	c.Cancel()
	assert.Equal(t, Idle, c.State())
	_, ok = c.Active()
	assert.False(t, ok)
}

func TestParseSource(t *testing.T) {
	s, err := ParseSource("palette:quiz")
	require.NoError(t, err)
	require.True(t, s.IsPalette())
	assert.Equal(t, model.BlockQuiz, s.Palette.Type)

	s, err = ParseSource("palette:layout:3")
	require.NoError(t, err)
	assert.True(t, s.Palette.Layout)
	assert.Equal(t, 3, s.Palette.Columns)
	assert.Equal(t, "palette:layout:3", s.String())

	s, err = ParseSource("palette:columns:4")
	require.NoError(t, err)
	assert.Len(t, s.Palette.Build(nil).Block.Columns, 4)

	s, err = ParseSource(" blk-a ")
	require.NoError(t, err)
	assert.Equal(t, "blk-a", s.ID)

	_, err = ParseSource("palette:video")
	assert.Error(t, err)
	_, err = ParseSource("palette:layout:0")
	assert.Error(t, err)
	_, err = ParseSource("")
	assert.Error(t, err)
}

func TestDragOver_RepeatedHoverKeepsPreview(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("a"), m.Blk("b"), m.Blk("c"))))
	c := newCoordinator()
	c.DragStart(Existing("a"))

	p := c.DragOver(tr, "c")
	require.True(t, p.Changed)
	again := c.DragOver(p.Tree, "c")
	assert.False(t, again.Changed, "the same hover twice previews once")
	assert.Equal(t, []string{"b", "c", "a"}, cellIDs(t, again.Tree, "cell-1"))

	r := c.DragEnd(again.Tree, Over("c"))
	require.True(t, r.Changed)
	assert.Equal(t, []string{"b", "c", "a"}, cellIDs(t, r.Tree, "cell-1"))
}

func TestDragOver_HoverBackAndForth(t *testing.T) {
	tr := m.Tree(m.Row("row-1", m.Cell("cell-1", m.Blk("a"), m.Blk("b"), m.Blk("c"))))
	c := newCoordinator()
	c.DragStart(Existing("a"))

	p := c.DragOver(tr, "b")
	assert.Equal(t, []string{"b", "a", "c"}, cellIDs(t, p.Tree, "cell-1"))
	p = c.DragOver(p.Tree, "c")
	assert.Equal(t, []string{"b", "c", "a"}, cellIDs(t, p.Tree, "cell-1"))
	p = c.DragOver(p.Tree, "b")
	assert.Equal(t, []string{"a", "b", "c"}, cellIDs(t, p.Tree, "cell-1"))
}

func layoutTree() model.Tree {
	return m.Tree(
		m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"), m.Blk("blk-b"))),
		m.Row("row-2", m.Cell("cell-2", m.Con("row-L", m.Cell("cell-L1"), m.Cell("cell-L2")))),
	)
}

func TestDragEnd_IntoLayoutCellKeepsSiblingCells(t *testing.T) {
	c := newCoordinator()
	c.DragStart(Existing("blk-a"))

	r := c.DragEnd(layoutTree(), Over("cell-L1"))
	require.True(t, r.Changed)
	layout, ok := locate.FindRow(r.Tree, "row-L")
	require.True(t, ok)
	require.Len(t, layout.Cells, 2)
	assert.Equal(t, []string{"blk-a"}, m.ResourceIDs(layout.Cells[0]))
}

func TestDragEnd_SparesProtectedSelection(t *testing.T) {
	tr := m.Tree(
		m.Row("row-1", m.Cell("cell-1", m.Blk("blk-a"))),
		m.Row("row-2", m.Cell("cell-2", m.Blk("blk-b"))),
	)
	c := newCoordinator()
	c.DragStart(Existing("blk-a"))
	r := c.DragEnd(tr, Over("blk-b"), "cell-1")
	require.True(t, r.Changed)
	assert.True(t, locate.Contains(r.Tree, "cell-1"), "the protected source cell stays")
	assert.True(t, locate.Contains(r.Tree, "row-1"))

	c.DragStart(Existing("blk-a"))
	r = c.DragEnd(tr, Over("blk-b"))
	require.True(t, r.Changed)
	assert.False(t, locate.Contains(r.Tree, "row-1"), "unprotected, the emptied source row goes")
}

func TestDragEnd_PaletteIDsDoNotCollide(t *testing.T) {
	var tr model.Tree
	c := newCoordinator()
	for i := 0; i < 30; i++ {
		c.DragStart(FromPalette(PaletteItem{Layout: true, Columns: 3}))
		tr = c.DragEnd(tr, Canvas()).Tree
	}
	assert.Empty(t, locate.DuplicateIDs(tr))
}
