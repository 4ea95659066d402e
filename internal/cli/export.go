package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lesson-cli/internal/export"
	"lesson-cli/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		out       string
		render    bool
		width     int
		style     string
		structure bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current lesson as Markdown",
		Example: strings.TrimSpace(`
  # Markdown to stdout
  lesson export

  # Read it in the terminal
  lesson export --render

  # Write a file
  lesson export --out lesson.md
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, err := loadLesson(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			md, err := export.Markdown(l, export.RenderOptions{Structure: structure})
			if err != nil {
				return writeErr(cmd, err)
			}

			if out != "" {
				if dir := filepath.Dir(out); dir != "" {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return writeErr(cmd, err)
					}
				}
				if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": out, "bytes": len(md)}})
			}

			if render {
				if !cmd.Flags().Changed("style") {
					if cfg, err := store.LoadConfig(); err == nil && cfg.TUI != nil && cfg.TUI.PreviewStyle != "" {
						style = cfg.TUI.PreviewStyle
					}
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), export.RenderTerminal(md, width, style))
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write Markdown to this file instead of stdout")
	cmd.Flags().BoolVar(&render, "render", false, "Render for the terminal (glamour)")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	cmd.Flags().StringVar(&style, "style", "auto", "Style for --render (auto|dark|light|notty)")
	cmd.Flags().BoolVar(&structure, "structure", false, "Annotate rows, cells and blocks with their ids")
	return cmd
}
