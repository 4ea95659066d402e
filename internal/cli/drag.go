package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"lesson-cli/internal/drag"
	"lesson-cli/internal/format"
)

func newDropCmd(app *App) *cobra.Command {
	var (
		over   string
		column string
		canvas bool
		hover  []string
	)

	cmd := &cobra.Command{
		Use:   "drop <source>",
		Short: "Run one drag gesture: pick up a node (or palette:<type>) and drop it",
		Long: strings.TrimSpace(`
Source is an existing node id, palette:<type> (text|header|image|quiz|columns),
palette:columns:<n> or palette:layout:<n>.

The drop target is, in order of precedence: --canvas, --column, --over, and
with none of them the last cell of the lesson. A target that no longer exists
leaves the lesson unchanged. --hover replays intermediate hovers (live reorder
inside one cell) before the drop.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := drag.ParseSource(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			target := drag.Over(over)
			if column != "" {
				id, col, err := parseColumnRef(column)
				if err != nil {
					return writeErr(cmd, err)
				}
				target = drag.IntoColumn(id, col)
			}
			if canvas {
				target = drag.Canvas()
			}

			l, s, sess, err := openSession(cmd, app, "")
			if err != nil {
				return writeErr(cmd, err)
			}
			sess.DragStart(src)
			for _, h := range hover {
				sess.DragOver(strings.TrimSpace(h))
			}
			r := sess.DragEnd(target)
			meta := map[string]any{"policy": string(r.Policy), "changed": r.Changed}
			if !r.Changed {
				// Stale ids are absorbed: report, save nothing.
				return writeOut(cmd, app, format.Envelope{Data: l, Meta: meta})
			}
			return commit(cmd, app, s, l, sess, change{
				typ:     "drag.drop",
				nodeID:  r.Selection,
				payload: map[string]any{"source": src.String(), "target": target.ID, "policy": string(r.Policy)},
			})
		},
	}
	cmd.Flags().StringVar(&over, "over", "", "Node id the pointer is released over")
	cmd.Flags().StringVar(&column, "column", "", "Drop into a column: <columns-id>:<index>")
	cmd.Flags().BoolVar(&canvas, "canvas", false, "Drop on the empty canvas (new row at the end)")
	cmd.Flags().StringSliceVar(&hover, "hover", nil, "Node ids hovered before the drop, in order")
	return cmd
}
