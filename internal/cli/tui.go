package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"lesson-cli/internal/model"
	"lesson-cli/internal/store"
	"lesson-cli/internal/tui"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit the current lesson interactively",
		Long: strings.TrimSpace(`
Opens the current lesson in the interactive editor. Without a current lesson an
"Untitled" lesson is created and made current. Changes are saved on ctrl+s and
on quit.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}

	l, err := tuiLesson(cmd, app, s)
	if err != nil {
		return writeErr(cmd, err)
	}

	opts := tui.Options{Store: s, Lesson: l, Logger: app.logger()}
	if cfg.TUI != nil {
		opts.Theme = cfg.TUI.Theme
		opts.PreviewStyle = cfg.TUI.PreviewStyle
	}
	log := app.logger()
	log.Info().Str("lesson", l.ID).Msg("tui start")
	if err := tui.Run(ctxOf(cmd), opts); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// tuiLesson loads the current lesson, creating an untitled one when there is none.
func tuiLesson(cmd *cobra.Command, app *App, s store.Store) (*model.Lesson, error) {
	if _, err := currentLessonID(app); err == nil {
		l, _, err := loadLesson(cmd, app)
		return l, err
	}
	l, err := s.CreateLesson(ctxOf(cmd), "Untitled")
	if err != nil {
		return nil, err
	}
	if _, err := s.AppendEvent(ctxOf(cmd), model.Event{LessonID: l.ID, Type: "lesson.create", NodeID: l.ID, Payload: map[string]any{"title": l.Title}}); err != nil {
		return nil, err
	}
	if err := setCurrentLesson(l.ID); err != nil {
		return nil, err
	}
	return l, nil
}
