package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"lesson-cli/internal/model"
)

// AppendEvent records one edit. Missing id/timestamp are filled in.
func (s Store) AppendEvent(ctx context.Context, ev model.Event) (model.Event, error) {
	if strings.TrimSpace(ev.LessonID) == "" {
		return ev, errors.New("event has no lesson id")
	}
	if strings.TrimSpace(ev.Type) == "" {
		return ev, errors.New("event has no type")
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return ev, err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return ev, err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO events(event_id, lesson_id, type, node_id, payload_json, issued_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.LessonID, ev.Type, ev.NodeID, string(payload), ev.TS.UnixMilli())
	return ev, err
}

// ListEvents returns the newest events of a lesson first. limit <= 0 means all.
func (s Store) ListEvents(ctx context.Context, lessonID string, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, lesson_id, type, node_id, payload_json, issued_at_unixms FROM events WHERE lesson_id = ? ORDER BY issued_at_unixms DESC, rowid DESC`
	args := []any{strings.TrimSpace(lessonID)}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var (
			ev      model.Event
			payload string
			ts      int64
		)
		if err := rows.Scan(&ev.ID, &ev.LessonID, &ev.Type, &ev.NodeID, &payload, &ts); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(ts).UTC()
		if payload != "" && payload != "null" {
			var v any
			if err := json.Unmarshal([]byte(payload), &v); err == nil {
				ev.Payload = v
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
