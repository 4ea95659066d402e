package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"lesson-cli/internal/drag"
	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
	"lesson-cli/internal/session"
	"lesson-cli/internal/store"
)

type mode int

const (
	modeCanvas mode = iota
	modeDrag
	modeEditTitle
)

type appModel struct {
	ctx    context.Context
	store  store.Store
	lesson *model.Lesson
	sess   *session.Session
	log    zerolog.Logger

	previewStyle string
	mono         bool

	nodes  []locate.Node
	cursor int

	mode mode
	// beforeDrag is the tree at pick-up; esc restores it so live reorder
	// previews are undone along with the gesture.
	beforeDrag model.Tree
	preview    bool
	showHelp   bool

	input textinput.Model
	keys  keyMap
	help  help.Model

	width  int
	height int

	savedRevision int
	status        string
	err           error
}

func newAppModel(ctx context.Context, opts Options) appModel {
	log := opts.Logger.With().Str("lesson", opts.Lesson.ID).Logger()
	m := appModel{
		ctx:          ctx,
		store:        opts.Store,
		lesson:       opts.Lesson,
		sess:         session.New(opts.Lesson.Tree, session.WithLogger(log)),
		log:          log,
		previewStyle: opts.PreviewStyle,
		mono:         strings.EqualFold(strings.TrimSpace(opts.Theme), "mono"),
		keys:         defaultKeyMap(),
		help:         help.New(),
	}
	m.input = textinput.New()
	m.input.Placeholder = "Title"
	m.input.CharLimit = 200
	m.input.Width = 40
	m.refresh()
	if len(m.nodes) > 0 {
		m.sess.SelectNode(m.nodes[0].ID)
	}
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// refresh re-flattens the tree and puts the cursor on the selection.
func (m *appModel) refresh() {
	m.nodes = locate.Nodes(m.sess.Tree())
	if sel := m.sess.Selected(); sel != "" {
		for i, n := range m.nodes {
			if n.ID == sel && n.Kind != locate.NodeColumn {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.nodes) {
		m.cursor = len(m.nodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m appModel) current() (locate.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return locate.Node{}, false
	}
	return m.nodes[m.cursor], true
}

func (m appModel) dirty() bool {
	return m.sess.Revision() != m.savedRevision
}

func (m *appModel) save() error {
	if !m.dirty() {
		return nil
	}
	m.lesson.Tree = m.sess.Tree()
	if err := m.store.SaveLesson(m.ctx, m.lesson); err != nil {
		return err
	}
	if _, err := m.store.AppendEvent(m.ctx, model.Event{
		LessonID: m.lesson.ID,
		Type:     "tui.save",
		Payload:  map[string]any{"revision": m.sess.Revision()},
	}); err != nil {
		return err
	}
	m.savedRevision = m.sess.Revision()
	m.log.Info().Int("revision", m.savedRevision).Msg("saved")
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		switch m.mode {
		case modeEditTitle:
			return m.updateEditTitle(msg)
		case modeDrag:
			return m.updateDrag(msg)
		default:
			return m.updateCanvas(msg)
		}
	}
	return m, nil
}

func (m appModel) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if err := m.save(); err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Save):
		if err := m.save(); err != nil {
			m.err = err
		} else {
			m.status = "saved"
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Preview):
		m.preview = !m.preview
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Text):
		m.insert(model.BlockText)
		return m, nil
	case key.Matches(msg, m.keys.Header):
		m.insert(model.BlockHeader)
		return m, nil
	case key.Matches(msg, m.keys.Image):
		m.insert(model.BlockImage)
		return m, nil
	case key.Matches(msg, m.keys.Quiz):
		m.insert(model.BlockQuiz)
		return m, nil
	case key.Matches(msg, m.keys.Columns):
		m.insert(model.BlockColumns)
		return m, nil
	case key.Matches(msg, m.keys.Layout):
		id := m.sess.InsertLayout(model.DefaultColumns)
		m.status = "inserted layout " + id
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		sel := m.sess.Selected()
		if sel == "" || !m.sess.DeleteSelected("") {
			m.status = "nothing to delete"
			return m, nil
		}
		m.status = "deleted " + sel
		m.refresh()
		m.selectCursor()
		return m, nil
	case key.Matches(msg, m.keys.Duplicate):
		id, ok := m.sess.DuplicateSelected("")
		if !ok {
			m.status = "nothing to duplicate"
			return m, nil
		}
		m.status = "duplicated as " + id
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Prune):
		if m.sess.Prune() {
			m.status = "pruned empty containers"
			m.refresh()
		} else {
			m.status = "nothing to prune"
		}
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		n, ok := m.current()
		if !ok || n.Kind != locate.NodeBlock {
			m.status = "select a block to edit its title"
			return m, nil
		}
		m.mode = modeEditTitle
		m.input.SetValue(n.Block.Title)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.PickUp):
		n, ok := m.current()
		if !ok || (n.Kind != locate.NodeBlock && n.Kind != locate.NodeConstructor) {
			m.status = "only blocks and layouts can be dragged"
			return m, nil
		}
		m.beforeDrag = m.sess.Tree()
		m.sess.DragStart(drag.Existing(n.ID))
		m.mode = modeDrag
		m.status = "dragging " + n.ID
		return m, nil
	}
	return m, nil
}

func (m appModel) updateDrag(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.sess.CancelDrag()
		src := m.sess.Selected()
		if m.beforeDrag != nil {
			m.sess.Replace(m.beforeDrag, src)
		}
		m.endDrag("drag cancelled")
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		delta := 1
		if key.Matches(msg, m.keys.Up) {
			delta = -1
		}
		next := m.cursor + delta
		if next < 0 || next >= len(m.nodes) {
			return m, nil
		}
		m.cursor = next
		if m.sess.DragOver(m.nodes[next].ID) {
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Canvas):
		r := m.sess.DragEnd(drag.Canvas())
		m.finishDrop(r)
		return m, nil
	case key.Matches(msg, m.keys.Drop):
		n, ok := m.current()
		target := drag.Target{}
		if ok {
			target = drag.Over(n.ID)
			if n.Kind == locate.NodeColumn {
				target = drag.IntoColumn(n.ID, n.Column)
			}
		}
		r := m.sess.DragEnd(target)
		m.finishDrop(r)
		return m, nil
	}
	return m, nil
}

func (m *appModel) finishDrop(r drag.Result) {
	if r.Changed {
		m.endDrag(fmt.Sprintf("dropped (%s)", r.Policy))
		return
	}
	// Releasing over the dragged node itself keeps what the hover preview did.
	if !treeSame(m.beforeDrag, m.sess.Tree()) {
		m.endDrag("dropped (reorder)")
		return
	}
	m.endDrag("drop had no effect")
}

func (m *appModel) endDrag(status string) {
	m.mode = modeCanvas
	m.beforeDrag = nil
	m.status = status
	m.refresh()
}

func (m appModel) updateEditTitle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeCanvas
		m.input.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if n, ok := m.current(); ok && n.Kind == locate.NodeBlock {
			if m.sess.SetBlockContent(n.ID, &title, nil) {
				m.status = "title set"
			}
		}
		m.mode = modeCanvas
		m.input.Blur()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) insert(t model.BlockType) {
	id := m.sess.InsertBlock(t)
	m.status = fmt.Sprintf("inserted %s %s", t, id)
	m.refresh()
}

func (m *appModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.nodes) {
		return
	}
	m.cursor = next
	m.selectCursor()
}

// selectCursor makes the node under the cursor the selection. Column entries
// select their columns block.
func (m *appModel) selectCursor() {
	if n, ok := m.current(); ok {
		m.sess.SelectNode(n.ID)
		return
	}
	m.sess.SelectNode("")
}

// treeSame reports whether b is the very tree a. Edits never mutate in place,
// so an untouched tree keeps its backing array.
func treeSame(a, b model.Tree) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
