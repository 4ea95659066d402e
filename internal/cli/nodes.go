package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
	"lesson-cli/internal/mutate"
)

func newInsertCmd(app *App) *cobra.Command {
	var (
		selection string
		title     string
		payload   string
		columns   int
	)

	cmd := &cobra.Command{
		Use:   "insert <type>",
		Short: "Insert a block (text|header|image|quiz|columns) next to the selection",
		Long: strings.TrimSpace(`
Insert places the new block relative to --select:
  row selected        new row right after it
  block/layout        right after it
  cell selected       appended to that cell
  nothing / unknown   appended to the last cell
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := model.BlockType(strings.TrimSpace(args[0]))
			if !typ.Valid() {
				return writeErr(cmd, fmt.Errorf("unknown block type: %s", args[0]))
			}
			raw, err := payloadArg(payload)
			if err != nil {
				return writeErr(cmd, err)
			}
			l, s, sess, err := openSession(cmd, app, selection)
			if err != nil {
				return writeErr(cmd, err)
			}

			var id string
			if typ == model.BlockColumns && columns > 0 {
				id = sess.Insert(model.BlockResource(model.NewColumnsBlock(columns, locate.IDs(sess.Tree()))))
			} else {
				id = sess.InsertBlock(typ)
			}
			if cmd.Flags().Changed("title") || raw != nil {
				var tp *string
				if cmd.Flags().Changed("title") {
					tp = &title
				}
				sess.SetBlockContent(id, tp, raw)
			}
			return commit(cmd, app, s, l, sess, change{typ: "block.insert", nodeID: id, payload: map[string]any{"type": string(typ), "selection": selection}})
		},
	}
	cmd.Flags().StringVar(&selection, "select", "", "Node the insert is relative to")
	cmd.Flags().StringVar(&title, "title", "", "Block title")
	cmd.Flags().StringVar(&payload, "payload", "", "Block payload (JSON)")
	cmd.Flags().IntVar(&columns, "columns", 0, "Column count (columns blocks only)")
	return cmd
}

func payloadArg(s string) (json.RawMessage, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !json.Valid([]byte(s)) {
		return nil, errors.New("--payload is not valid JSON")
	}
	return json.RawMessage(s), nil
}

func newLayoutCmd(app *App) *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   "layout [cols]",
		Short: "Insert a nested layout with cols cells (default 2)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols := model.DefaultColumns
			if len(args) == 1 {
				n, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil || n < 1 {
					return writeErr(cmd, fmt.Errorf("invalid column count: %s", args[0]))
				}
				cols = n
			}
			l, s, sess, err := openSession(cmd, app, selection)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := sess.InsertLayout(cols)
			return commit(cmd, app, s, l, sess, change{typ: "layout.insert", nodeID: id, payload: map[string]any{"columns": cols, "selection": selection}})
		},
	}
	cmd.Flags().StringVar(&selection, "select", "", "Node the insert is relative to")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var (
		title   string
		payload string
	)

	cmd := &cobra.Command{
		Use:   "edit <block-id>",
		Short: "Set a block's title and/or payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := payloadArg(payload)
			if err != nil {
				return writeErr(cmd, err)
			}
			var tp *string
			if cmd.Flags().Changed("title") {
				tp = &title
			}
			if tp == nil && raw == nil {
				return writeErr(cmd, errors.New("nothing to set; pass --title and/or --payload"))
			}
			id := strings.TrimSpace(args[0])
			l, s, sess, err := openSession(cmd, app, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !sess.SetBlockContent(id, tp, raw) {
				return writeErr(cmd, errNotFound("block", id))
			}
			return commit(cmd, app, s, l, sess, change{typ: "block.content", nodeID: id})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Block title")
	cmd.Flags().StringVar(&payload, "payload", "", "Block payload (JSON)")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <node-id>",
		Short: "Delete a row, cell, layout or block (empty containers are cleaned up)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			l, s, sess, err := openSession(cmd, app, "")
			if err != nil {
				return writeErr(cmd, err)
			}
			if !sess.DeleteSelected(id) {
				return writeErr(cmd, errNotFound("node", id))
			}
			return commit(cmd, app, s, l, sess, change{typ: "node.delete", nodeID: id})
		},
	}
}

func newDupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dup <node-id>",
		Short: "Duplicate a row, layout or block next to itself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			l, s, sess, err := openSession(cmd, app, "")
			if err != nil {
				return writeErr(cmd, err)
			}
			newID, ok := sess.DuplicateSelected(id)
			if !ok {
				return writeErr(cmd, errNotFound("node", id))
			}
			return commit(cmd, app, s, l, sess, change{typ: "node.duplicate", nodeID: newID, payload: map[string]any{"source": id}})
		},
	}
}

type moveFlags struct {
	after, before string
	cell          string
	index         int
	column        string
	canvas        bool
	newRow        string
	last          bool
}

// destination turns the flags into exactly one destination.
func (f moveFlags) destination(t model.Tree) (mutate.Destination, error) {
	var dests []mutate.Destination
	if f.after != "" {
		dests = append(dests, mutate.After{AnchorID: f.after})
	}
	if f.before != "" {
		dests = append(dests, mutate.Before{AnchorID: f.before})
	}
	if f.cell != "" {
		_, rowID, _ := locate.FindCell(t, f.cell)
		dests = append(dests, mutate.CellPosition{RowID: rowID, CellID: f.cell, Index: f.index})
	}
	if f.column != "" {
		id, col, err := parseColumnRef(f.column)
		if err != nil {
			return nil, err
		}
		dests = append(dests, mutate.ColumnSlot{ColumnsID: id, Column: col})
	}
	if f.canvas {
		dests = append(dests, mutate.NewRowAfter{})
	}
	if f.newRow != "" {
		dests = append(dests, mutate.NewRowAfter{RowID: f.newRow})
	}
	if f.last {
		dests = append(dests, mutate.AppendToLast{})
	}
	switch len(dests) {
	case 0:
		return nil, errors.New("missing destination; use one of --after, --before, --cell, --column, --canvas, --new-row, --last")
	case 1:
		return dests[0], nil
	default:
		return nil, errors.New("conflicting destinations; pass exactly one")
	}
}

// parseColumnRef reads "<columns-block-id>:<column>".
func parseColumnRef(s string) (string, int, error) {
	id, n, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || strings.TrimSpace(id) == "" {
		return "", 0, fmt.Errorf("invalid column %q (want <columns-id>:<index>)", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(n))
	if err != nil || col < 0 {
		return "", 0, fmt.Errorf("invalid column index %q", n)
	}
	return strings.TrimSpace(id), col, nil
}

func newMoveCmd(app *App) *cobra.Command {
	var f moveFlags

	cmd := &cobra.Command{
		Use:   "move <node-id>",
		Short: "Move a block or layout to a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			l, s, sess, err := openSession(cmd, app, "")
			if err != nil {
				return writeErr(cmd, err)
			}
			dest, err := f.destination(sess.Tree())
			if err != nil {
				return writeErr(cmd, err)
			}
			if !locate.Contains(sess.Tree(), id) {
				return writeErr(cmd, errNotFound("node", id))
			}
			if !sess.Move(id, dest) {
				return writeErr(cmd, errUnresolved("move", id, dest.String()))
			}
			return commit(cmd, app, s, l, sess, change{typ: "node.move", nodeID: id, payload: map[string]any{"dest": dest.String()}})
		},
	}
	cmd.Flags().StringVar(&f.after, "after", "", "Place right after this block or layout")
	cmd.Flags().StringVar(&f.before, "before", "", "Place right before this block or layout")
	cmd.Flags().StringVar(&f.cell, "cell", "", "Place into this cell (see --index)")
	cmd.Flags().IntVar(&f.index, "index", 0, "Slot in --cell (clamped)")
	cmd.Flags().StringVar(&f.column, "column", "", "Append to a column: <columns-id>:<index>")
	cmd.Flags().BoolVar(&f.canvas, "canvas", false, "Wrap in a new row at the end of the lesson")
	cmd.Flags().StringVar(&f.newRow, "new-row", "", "Wrap in a new row right after this row")
	cmd.Flags().BoolVar(&f.last, "last", false, "Append to the last cell")
	return cmd
}

func newReorderCmd(app *App) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "reorder <cell-id> <from> <to>",
		Short: "Move a block within a cell (indices count blocks only; layouts keep their slots)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid from index: %s", args[1]))
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid to index: %s", args[2]))
			}
			l, s, sess, err := openSession(cmd, app, "")
			if err != nil {
				return writeErr(cmd, err)
			}
			container := strings.TrimSpace(args[0])
			var ok bool
			if column != "" {
				id, col, err := parseColumnRef(column)
				if err != nil {
					return writeErr(cmd, err)
				}
				container = column
				ok = sess.ReorderColumn(id, col, from, to)
			} else {
				ok = sess.Reorder(container, from, to)
			}
			if !ok {
				return writeErr(cmd, errUnresolved("reorder", container, ""))
			}
			return commit(cmd, app, s, l, sess, change{typ: "container.reorder", nodeID: container, payload: map[string]any{"from": from, "to": to}})
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "Reorder inside a column instead: <columns-id>:<index> (cell-id is ignored)")
	return cmd
}

func newPruneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove empty cells, empty layouts and empty rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, s, sess, err := openSession(cmd, app, "")
			if err != nil {
				return writeErr(cmd, err)
			}
			if !sess.Prune() {
				return writeOut(cmd, app, map[string]any{"data": l, "meta": map[string]any{"changed": false}})
			}
			return commit(cmd, app, s, l, sess, change{typ: "tree.prune"})
		},
	}
}
