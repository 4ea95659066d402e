// Package export renders lessons for reading outside the editor: Markdown
// documents and terminal output.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"lesson-cli/internal/model"
)

type RenderOptions struct {
	// Structure adds an HTML comment with the node id before every row, cell and block.
	Structure bool
}

// Text payloads carry editor HTML.
type TextPayload struct {
	HTML string `json:"html"`
}

type HeaderPayload struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type ImagePayload struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

type QuizPayload struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// Markdown renders a lesson in document order. Rows are separated by a
// horizontal rule; cells and columns are rendered one after another.
func Markdown(l *model.Lesson, opt RenderOptions) (string, error) {
	if l == nil {
		return "", fmt.Errorf("missing lesson")
	}
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	if title := strings.TrimSpace(l.Title); title != "" {
		writeLn("# " + title)
		writeLn("")
	}

	first := true
	for _, r := range l.Tree {
		if r.IsEmpty() {
			continue
		}
		if !first {
			writeLn("---")
			writeLn("")
		}
		first = false
		if err := renderRow(&buf, r, opt); err != nil {
			return "", err
		}
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

func renderRow(buf *bytes.Buffer, r model.Row, opt RenderOptions) error {
	marker(buf, opt, "row", r.ID)
	for _, c := range r.Cells {
		if len(c.Resources) == 0 {
			continue
		}
		marker(buf, opt, "cell", c.ID)
		for _, res := range c.Resources {
			switch {
			case res.IsConstructor():
				if err := renderRow(buf, *res.Row, opt); err != nil {
					return err
				}
			case res.IsBlock():
				if err := renderBlock(buf, *res.Block, opt); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func renderBlock(buf *bytes.Buffer, b model.Block, opt RenderOptions) error {
	marker(buf, opt, "block", b.ID)
	md, err := BlockMarkdown(b)
	if err != nil {
		return fmt.Errorf("block %s: %w", b.ID, err)
	}
	if md != "" {
		buf.WriteString(md)
		buf.WriteString("\n\n")
	}
	for _, col := range b.Columns {
		for _, child := range col {
			if err := renderBlock(buf, child, opt); err != nil {
				return err
			}
		}
	}
	return nil
}

func marker(buf *bytes.Buffer, opt RenderOptions, kind, id string) {
	if !opt.Structure {
		return
	}
	buf.WriteString("<!-- " + kind + " " + id + " -->\n")
}

// BlockMarkdown renders one block on its own (columns blocks render only their title).
// Malformed payloads are an error; a missing payload renders the title alone.
func BlockMarkdown(b model.Block) (string, error) {
	title := strings.TrimSpace(b.Title)
	var parts []string
	if title != "" && b.Type != model.BlockHeader {
		parts = append(parts, "**"+title+"**")
	}
	if len(b.Payload) == 0 || string(b.Payload) == "null" {
		if b.Type == model.BlockHeader && title != "" {
			return "## " + title, nil
		}
		return strings.Join(parts, "\n\n"), nil
	}

	switch b.Type {
	case model.BlockText:
		var p TextPayload
		if err := json.Unmarshal(b.Payload, &p); err != nil {
			return "", err
		}
		md, err := HTMLToMarkdown(p.HTML)
		if err != nil {
			return "", err
		}
		if md != "" {
			parts = append(parts, md)
		}
	case model.BlockHeader:
		var p HeaderPayload
		if err := json.Unmarshal(b.Payload, &p); err != nil {
			return "", err
		}
		text := strings.TrimSpace(p.Text)
		if text == "" {
			text = title
		}
		level := p.Level
		if level < 1 || level > 6 {
			level = 2
		}
		if text != "" {
			parts = append(parts, strings.Repeat("#", level)+" "+text)
		}
	case model.BlockImage:
		var p ImagePayload
		if err := json.Unmarshal(b.Payload, &p); err != nil {
			return "", err
		}
		if strings.TrimSpace(p.URL) != "" {
			parts = append(parts, "!["+p.Caption+"]("+p.URL+")")
		}
		if strings.TrimSpace(p.Caption) != "" {
			parts = append(parts, "_"+p.Caption+"_")
		}
	case model.BlockQuiz:
		var p QuizPayload
		if err := json.Unmarshal(b.Payload, &p); err != nil {
			return "", err
		}
		var q strings.Builder
		q.WriteString("> **Quiz:** " + strings.TrimSpace(p.Question))
		for i, o := range p.Options {
			box := "[ ]"
			if i == p.Answer {
				box = "[x]"
			}
			q.WriteString("\n> - " + box + " " + strings.TrimSpace(o))
		}
		parts = append(parts, q.String())
	}
	return strings.Join(parts, "\n\n"), nil
}
