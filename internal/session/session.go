// Package session owns the document being edited: the current tree, the
// current selection, and the drag gesture in progress.
//
// Every edit computes a new tree from the old one and then swaps it in with
// Replace, so readers never see a half-applied change.
package session

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"lesson-cli/internal/cleanup"
	"lesson-cli/internal/drag"
	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
	"lesson-cli/internal/mutate"
)

// Snapshot is the outbound view for renderers.
type Snapshot struct {
	Tree      model.Tree `json:"tree"`
	Selection string     `json:"selection,omitempty"`
	Revision  int        `json:"revision"`
}

type Session struct {
	mu       sync.RWMutex
	tree     model.Tree
	selected string
	revision int

	drag *drag.Coordinator
	log  zerolog.Logger
}

type Option func(*Session)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithSelection starts the session with a node selected (ignored if unknown).
func WithSelection(id string) Option {
	return func(s *Session) {
		if locate.Contains(s.tree, id) {
			s.selected = id
		}
	}
}

func New(t model.Tree, opts ...Option) *Session {
	s := &Session{tree: t, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	s.drag = drag.NewCoordinator(s.log)
	return s
}

func (s *Session) Tree() model.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

func (s *Session) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Revision counts Replace calls; renderers use it to detect unsaved changes.
func (s *Session) Revision() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Tree: s.tree, Selection: s.selected, Revision: s.revision}
}

// Blocks lists every block regardless of nesting depth.
func (s *Session) Blocks() []model.Block {
	return locate.Blocks(s.Tree())
}

// Replace is the only state transition: adopt a new tree and selection.
// A selection that does not resolve in the new tree is cleared.
func (s *Session) Replace(t model.Tree, selection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selection != "" && !locate.Contains(t, selection) {
		selection = ""
	}
	s.tree = t
	s.selected = selection
	s.revision++
}

// SelectNode selects a node; "" clears the selection. Unknown ids are refused.
func (s *Session) SelectNode(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && !locate.Contains(s.tree, id) {
		return false
	}
	s.selected = id
	return true
}

// InsertBlock adds a new block of the given type next to the selection and
// selects it. It returns the new block id.
func (s *Session) InsertBlock(t model.BlockType) string {
	return s.Insert(model.BlockResource(model.NewBlock(t, locate.IDs(s.Tree()))))
}

// InsertLayout adds a nested layout with cols cells.
func (s *Session) InsertLayout(cols int) string {
	return s.Insert(model.NewConstructor(cols, locate.IDs(s.Tree())))
}

// Insert places res according to the selection:
//   - a row is selected: res starts a new row right after it;
//   - a block or constructor is selected: res goes right after it;
//   - a cell is selected: res is appended to that cell;
//   - otherwise (or when that fails): res is appended to the last cell.
//
// A resource whose ids clash with the tree gets fresh ids first.
func (s *Session) Insert(res model.Resource) string {
	t, sel := s.Tree(), s.Selected()
	if taken := locate.IDs(t); clashes(res, taken) {
		res = model.CloneFresh(res, taken)
	}
	out, how := insertBySelection(t, sel, res)
	s.log.Debug().Str("node", res.ID()).Str("selection", sel).Str("policy", how).Msg("insert")
	s.Replace(out, res.ID())
	return res.ID()
}

func clashes(res model.Resource, taken map[string]bool) bool {
	wrapped := model.Tree{{Cells: []model.Cell{{Resources: []model.Resource{res}}}}}
	for id := range locate.IDs(wrapped) {
		if id != "" && taken[id] {
			return true
		}
	}
	return false
}

func insertBySelection(t model.Tree, sel string, res model.Resource) (model.Tree, string) {
	if sel != "" {
		if locate.IsTopLevelRow(t, sel) {
			if out, ok := mutate.InsertNewRowAfter(t, sel, res); ok {
				return out, "new-row-after"
			}
		}
		if out, ok := mutate.InsertAfter(t, sel, res); ok {
			return out, "insert-after"
		}
		if c, _, ok := locate.FindCell(t, sel); ok {
			if out, ok := mutate.InsertAt(t, "", c.ID, len(c.Resources), res); ok {
				return out, "append-to-cell"
			}
		}
	}
	return mutate.AppendToLastCell(t, res), "append-to-last"
}

// DeleteSelected deletes a node (the selection when id is empty) and cleans
// up what the delete left empty on its side. Deleting the selection clears
// it; deleting another node keeps the selection and spares it from cleanup.
func (s *Session) DeleteSelected(id string) bool {
	t, sel := s.Tree(), s.Selected()
	if id == "" {
		id = sel
	}
	path, _ := locate.FindPath(t, id)
	out, ok := mutate.DeleteNode(t, id)
	if !ok {
		s.log.Debug().Str("node", id).Msg("delete ignored: not found")
		return false
	}
	if sel == id {
		sel = ""
	}
	s.log.Debug().Str("node", id).Str("selection", sel).Msg("delete")
	s.Replace(cleanup.PruneSource(out, path, sel), sel)
	return true
}

// DuplicateSelected duplicates a node (the selection when id is empty) and
// selects the copy.
func (s *Session) DuplicateSelected(id string) (string, bool) {
	if id == "" {
		id = s.Selected()
	}
	out, newID, ok := mutate.DuplicateNode(s.Tree(), id)
	if !ok {
		s.log.Debug().Str("node", id).Msg("duplicate ignored: not found")
		return "", false
	}
	s.log.Debug().Str("node", id).Str("copy", newID).Msg("duplicate")
	s.Replace(out, newID)
	return newID, true
}

// Move relocates a resource, cleans up the source side and selects the moved
// node. The moved node and the previous selection are spared from cleanup.
func (s *Session) Move(id string, dest mutate.Destination) bool {
	t, sel := s.Tree(), s.Selected()
	path, _ := locate.FindPath(t, id)
	out, ok := mutate.MoveResource(t, id, dest)
	if !ok {
		s.log.Debug().Str("node", id).Stringer("dest", dest).Msg("move ignored: unresolved")
		return false
	}
	s.log.Debug().Str("node", id).Stringer("dest", dest).Msg("move")
	s.Replace(cleanup.PruneSource(out, path, id, sel), id)
	return true
}

func (s *Session) Reorder(cellID string, from, to int) bool {
	out, ok := mutate.Reorder(s.Tree(), cellID, from, to)
	if !ok {
		return false
	}
	s.Replace(out, s.Selected())
	return true
}

func (s *Session) ReorderColumn(columnsID string, column, from, to int) bool {
	out, ok := mutate.ReorderColumn(s.Tree(), columnsID, column, from, to)
	if !ok {
		return false
	}
	s.Replace(out, s.Selected())
	return true
}

// SetBlockContent stores caller-supplied title/payload on a block.
func (s *Session) SetBlockContent(id string, title *string, payload json.RawMessage) bool {
	out, ok := mutate.SetBlockContent(s.Tree(), id, title, payload)
	if !ok {
		return false
	}
	s.Replace(out, s.Selected())
	return true
}

// Prune runs cleanup, sparing the selection.
func (s *Session) Prune() bool {
	t, sel := s.Tree(), s.Selected()
	out := cleanup.PruneEmpty(t, sel)
	if len(locate.Nodes(out)) == len(locate.Nodes(t)) {
		return false
	}
	s.Replace(out, sel)
	return true
}

func (s *Session) DragStart(src drag.Source) {
	s.drag.DragStart(src)
}

// DragOver applies the live same-container reorder preview, if any.
func (s *Session) DragOver(overID string) bool {
	r := s.drag.DragOver(s.Tree(), overID)
	if !r.Changed {
		return false
	}
	s.Replace(r.Tree, r.Selection)
	return true
}

// DragEnd resolves the drop. The gesture is over afterwards, whatever happened.
func (s *Session) DragEnd(target drag.Target) drag.Result {
	r := s.drag.DragEnd(s.Tree(), target, s.Selected())
	if r.Changed {
		s.Replace(r.Tree, r.Selection)
	}
	return r
}

func (s *Session) CancelDrag() {
	s.drag.Cancel()
}

// Dragging reports the active drag source, if a gesture is in progress.
func (s *Session) Dragging() (drag.Source, bool) {
	return s.drag.Active()
}
