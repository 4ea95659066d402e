package mutate

import (
	"encoding/json"
	"strings"

	"lesson-cli/internal/model"
)

// SetBlockContent replaces a block's title and/or payload. A nil title or a
// nil payload leaves that field alone. The payload is stored as given.
func SetBlockContent(t model.Tree, id string, title *string, payload json.RawMessage) (model.Tree, bool) {
	id = strings.TrimSpace(id)
	if id == "" || (title == nil && payload == nil) {
		return t, false
	}
	return rewriteBlocks(t, func(b model.Block) (model.Block, bool) {
		if b.ID != id {
			return b, false
		}
		if title != nil {
			b.Title = *title
		}
		if payload != nil {
			b.Payload = append(json.RawMessage(nil), payload...)
		}
		return b, true
	})
}

// SetRowProps replaces the opaque layout hints of a row.
func SetRowProps(t model.Tree, rowID string, props json.RawMessage) (model.Tree, bool) {
	rowID = strings.TrimSpace(rowID)
	if rowID == "" {
		return t, false
	}
	return rewriteRows(t, func(r model.Row) (model.Row, bool) {
		if r.ID != rowID {
			return r, false
		}
		r.Props = append(json.RawMessage(nil), props...)
		return r, true
	})
}
