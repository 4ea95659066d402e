// Package logging builds the zerolog logger shared by the CLI and the TUI.
//
// Stdout belongs to command output (strict JSON) and to the TUI, so logs only
// go to a file or an explicit writer. With neither configured the logger is a no-op.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0o644

type Builder struct {
	writer io.Writer
	path   string
	level  string
}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) FromPath(path string) *Builder {
	b.path = strings.TrimSpace(path)
	return b
}

func (b *Builder) FromWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

// Level accepts zerolog level names (debug, info, warn, error). Empty means info.
func (b *Builder) Level(level string) *Builder {
	b.level = strings.TrimSpace(level)
	return b
}

// Logger is the built logger plus the file it writes to, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (b *Builder) Make() (*Logger, error) {
	out := &Logger{}
	w := b.writer
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		out.file = f
		w = zerolog.SyncWriter(f)
	}
	if w == nil {
		out.Logger = zerolog.Nop()
		return out, nil
	}
	lvl := zerolog.InfoLevel
	if b.level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(b.level))
		if err != nil {
			_ = out.Close()
			return nil, err
		}
		lvl = parsed
	}
	out.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return out, nil
}
