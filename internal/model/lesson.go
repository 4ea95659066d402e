package model

import "time"

// Lesson is the persisted envelope around a document tree.
type Lesson struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tree      Tree      `json:"tree"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Event struct {
	ID       string    `json:"id"`
	LessonID string    `json:"lessonId"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	NodeID   string    `json:"nodeId,omitempty"`
	Payload  any       `json:"payload,omitempty"`
}
