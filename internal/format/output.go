package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the shape mutating commands print: the resulting document (or
// node) plus the selection the edit left behind.
type Envelope struct {
	Data      any    `json:"data"`
	Selection string `json:"selection,omitempty"`
	Meta      any    `json:"meta,omitempty"`
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - tree (documents only; anything else is written as json)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "tree":
		return WriteTree(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
