package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"lesson-cli/internal/model"
	"lesson-cli/internal/store"
)

type Options struct {
	Store  store.Store
	Lesson *model.Lesson
	Logger zerolog.Logger

	// Theme and PreviewStyle come from the tui section of config.json.
	Theme        string
	PreviewStyle string
}

// Run edits one lesson until the user quits. The lesson is saved on quit.
func Run(ctx context.Context, opts Options) error {
	if opts.Lesson == nil {
		return errors.New("tui: no lesson")
	}
	applyColorProfilePreference()
	applyTheme(opts.Theme)

	m := newAppModel(ctx, opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(appModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
