package cli

import (
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List the edit history of the current lesson (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, s, err := loadLesson(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			evs, err := s.ListEvents(ctxOf(cmd), l.ID, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	return cmd
}
