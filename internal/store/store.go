package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"lesson-cli/internal/model"
)

const (
	storeDirName   = ".lesson"
	sqliteFileName = "lessons.sqlite"
)

// ErrLessonNotFound is returned (wrapped) when a lesson id has no row.
var ErrLessonNotFound = errors.New("lesson not found")

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .lesson directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, storeDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir is the discovered .lesson dir, or ./.lesson when none exists yet.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, storeDirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// CreateLesson stores a new lesson whose document starts with one empty-state row.
func (s Store) CreateLesson(ctx context.Context, title string) (*model.Lesson, error) {
	now := time.Now().UTC()
	l := &model.Lesson{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Tree:      model.Tree{model.NewEmptyStateRow(nil)},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.SaveLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s Store) LoadLesson(ctx context.Context, id string) (*model.Lesson, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("missing lesson id")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT json FROM lessons WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrLessonNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var l model.Lesson
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return nil, fmt.Errorf("decode lesson %s: %w", id, err)
	}
	return &l, nil
}

// SaveLesson upserts the lesson snapshot. UpdatedAt is set to now.
func (s Store) SaveLesson(ctx context.Context, l *model.Lesson) error {
	if l == nil {
		return errors.New("nil lesson")
	}
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("lesson has no id")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	l.UpdatedAt = time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = l.UpdatedAt
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO lessons(id, title, json, created_at_unixms, updated_at_unixms)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, json = excluded.json, updated_at_unixms = excluded.updated_at_unixms`,
		l.ID, l.Title, string(raw), l.CreatedAt.UnixMilli(), l.UpdatedAt.UnixMilli())
	return err
}

// LessonSummary is a listing row (no tree).
type LessonSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListLessons returns lessons, most recently updated first.
func (s Store) ListLessons(ctx context.Context) ([]LessonSummary, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, title, created_at_unixms, updated_at_unixms FROM lessons ORDER BY updated_at_unixms DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LessonSummary{}
	for rows.Next() {
		var (
			ls               LessonSummary
			created, updated int64
		)
		if err := rows.Scan(&ls.ID, &ls.Title, &created, &updated); err != nil {
			return nil, err
		}
		ls.CreatedAt = time.UnixMilli(created).UTC()
		ls.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, ls)
	}
	return out, rows.Err()
}

func (s Store) DeleteLesson(ctx context.Context, id string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrLessonNotFound, id)
	}
	_, err = db.ExecContext(ctx, `DELETE FROM events WHERE lesson_id = ?`, strings.TrimSpace(id))
	return err
}
