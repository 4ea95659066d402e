package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lesson-cli/internal/format"
	"lesson-cli/internal/logging"
	"lesson-cli/internal/model"
	"lesson-cli/internal/session"
	"lesson-cli/internal/store"
)

type App struct {
	Dir        string
	LessonID   string
	PrettyJSON bool
	Format     string
	LogFile    string
	LogLevel   string

	log *logging.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "lesson",
		Short:        "Lesson document editor (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor on the current lesson
  lesson

  # Scriptable edits
  lesson new "Fractions"
  lesson insert text
  lesson drop palette:quiz --over blk-3k2j9x0a1b

  # Direct node lookup (shortcut for: lesson find <node-id>)
  lesson blk-3k2j9x0a1b
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := logging.New().FromPath(app.LogFile).Level(app.LogLevel).Make()
		if err != nil {
			return writeErr(cmd, fmt.Errorf("logger: %w", err))
		}
		app.log = l
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.log.Close()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("LESSON_DIR", ""), "Path to store dir (default: nearest .lesson/ walking up, else ./.lesson)")
	cmd.PersistentFlags().StringVar(&app.LessonID, "lesson", envOr("LESSON_ID", ""), "Lesson id (overrides currentLesson in config.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LESSON_FORMAT", "json"), "Output format (json|tree)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("LESSON_LOG_FILE", ""), "Append debug logs to this file (default: no logs)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("LESSON_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newUseCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newBlocksCmd(app))
	cmd.AddCommand(newFindCmd(app))
	cmd.AddCommand(newInsertCmd(app))
	cmd.AddCommand(newLayoutCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newDupCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newReorderCmd(app))
	cmd.AddCommand(newDropCmd(app))
	cmd.AddCommand(newPruneCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

func (app *App) logger() zerolog.Logger {
	if app.log == nil {
		return zerolog.Nop()
	}
	return app.log.Logger
}

func openStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

// currentLessonID resolves the lesson to act on:
// 1) --lesson / LESSON_ID
// 2) ~/.lesson/config.json currentLesson
func currentLessonID(app *App) (string, error) {
	if id := strings.TrimSpace(app.LessonID); id != "" {
		return id, nil
	}
	if cfg, err := store.LoadConfig(); err == nil && strings.TrimSpace(cfg.CurrentLesson) != "" {
		return strings.TrimSpace(cfg.CurrentLesson), nil
	}
	return "", errors.New("no current lesson; run `lesson new <title>` or `lesson use <lesson-id>` (or pass --lesson)")
}

func loadLesson(cmd *cobra.Command, app *App) (*model.Lesson, store.Store, error) {
	s, err := openStore(app)
	if err != nil {
		return nil, s, err
	}
	id, err := currentLessonID(app)
	if err != nil {
		return nil, s, err
	}
	l, err := s.LoadLesson(ctxOf(cmd), id)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, s, errNotFound("lesson", id)
		}
		return nil, s, err
	}
	return l, s, nil
}

// openSession loads the current lesson and wraps its tree in an editing session.
func openSession(cmd *cobra.Command, app *App, selection string) (*model.Lesson, store.Store, *session.Session, error) {
	l, s, err := loadLesson(cmd, app)
	if err != nil {
		return nil, s, nil, err
	}
	opts := []session.Option{session.WithLogger(app.logger().With().Str("lesson", l.ID).Logger())}
	if selection != "" {
		opts = append(opts, session.WithSelection(selection))
	}
	return l, s, session.New(l.Tree, opts...), nil
}

// change describes one edit for the event log.
type change struct {
	typ     string
	nodeID  string
	payload map[string]any
}

// commit saves the session's tree into the lesson, records the edit and prints
// the lesson with the selection the edit left behind.
func commit(cmd *cobra.Command, app *App, s store.Store, l *model.Lesson, sess *session.Session, c change) error {
	ctx := ctxOf(cmd)
	l.Tree = sess.Tree()
	if err := s.SaveLesson(ctx, l); err != nil {
		return writeErr(cmd, err)
	}
	if _, err := s.AppendEvent(ctx, model.Event{LessonID: l.ID, Type: c.typ, NodeID: c.nodeID, Payload: c.payload}); err != nil {
		return writeErr(cmd, err)
	}
	log := app.logger()
	log.Info().Str("lesson", l.ID).Str("event", c.typ).Str("node", c.nodeID).Msg("saved")
	return writeOut(cmd, app, format.Envelope{Data: l, Selection: sess.Selected()})
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
