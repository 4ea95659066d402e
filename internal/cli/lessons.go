package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"lesson-cli/internal/format"
	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
	"lesson-cli/internal/store"
)

func newNewCmd(app *App) *cobra.Command {
	var noUse bool

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a lesson (and make it current)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return writeErr(cmd, errors.New("title is empty"))
			}
			l, err := s.CreateLesson(ctxOf(cmd), title)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := s.AppendEvent(ctxOf(cmd), model.Event{LessonID: l.ID, Type: "lesson.create", NodeID: l.ID, Payload: map[string]any{"title": l.Title}}); err != nil {
				return writeErr(cmd, err)
			}
			if !noUse {
				if err := setCurrentLesson(l.ID); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}
	cmd.Flags().BoolVar(&noUse, "no-use", false, "Do not make the new lesson current")
	return cmd
}

func setCurrentLesson(id string) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	cfg.CurrentLesson = id
	return store.SaveConfig(cfg)
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lessons (most recently edited first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			lessons, err := s.ListLessons(ctxOf(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			current, _ := currentLessonID(app)
			return writeOut(cmd, app, map[string]any{
				"data": lessons,
				"meta": map[string]any{"current": current},
			})
		},
	}
}

func newUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <lesson-id>",
		Short: "Set the current lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			l, err := s.LoadLesson(ctxOf(cmd), id)
			if err != nil {
				if errors.Is(err, store.ErrLessonNotFound) {
					return writeErr(cmd, errNotFound("lesson", id))
				}
				return writeErr(cmd, err)
			}
			if err := setCurrentLesson(l.ID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"currentLesson": l.ID, "title": l.Title}})
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <lesson-id>",
		Short: "Delete a lesson and its event history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if err := s.DeleteLesson(ctxOf(cmd), id); err != nil {
				if errors.Is(err, store.ErrLessonNotFound) {
					return writeErr(cmd, errNotFound("lesson", id))
				}
				return writeErr(cmd, err)
			}
			if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentLesson == id {
				cfg.CurrentLesson = ""
				if err := store.SaveConfig(cfg); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current lesson document",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := loadLesson(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: l})
		},
	}
}

func newBlocksCmd(app *App) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List every block regardless of nesting depth",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := loadLesson(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := []model.Block{}
			for _, b := range locate.Blocks(l.Tree) {
				if typ != "" && string(b.Type) != typ {
					continue
				}
				out = append(out, b)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Only blocks of this type")
	return cmd
}

// nodeView is the find output: what the node is and where it lives.
type nodeView struct {
	ID     string            `json:"id"`
	Kind   string            `json:"kind"`
	Path   locate.Path       `json:"path"`
	Block  *model.Block      `json:"block,omitempty"`
	Row    *model.Row        `json:"row,omitempty"`
	Cell   *model.Cell       `json:"cell,omitempty"`
	Parent *locate.Container `json:"parent,omitempty"`
}

func describeNode(t model.Tree, id string) (nodeView, bool) {
	id = strings.TrimSpace(id)
	for _, n := range locate.Nodes(t) {
		if n.Kind == locate.NodeColumn || n.ID != id {
			continue
		}
		v := nodeView{ID: id, Kind: string(n.Kind), Block: n.Block, Row: n.Row}
		if n.Kind == locate.NodeCell {
			if c, _, ok := locate.FindCell(t, id); ok {
				v.Cell = &c
			}
		}
		if p, ok := locate.FindPath(t, id); ok {
			v.Path = p
			if parent, ok := p.Parent(); ok {
				v.Parent = &parent
			}
		}
		if v.Path == nil {
			v.Path = locate.Path{}
		}
		return v, true
	}
	return nodeView{}, false
}

func newFindCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "find <node-id>",
		Short: "Find a row, cell, layout or block by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := loadLesson(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			v, ok := describeNode(l.Tree, args[0])
			if !ok {
				return writeErr(cmd, errNotFound("node", strings.TrimSpace(args[0])))
			}
			return writeOut(cmd, app, map[string]any{"data": v})
		},
	}
}
