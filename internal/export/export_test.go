package export

import (
	"encoding/json"
	"strings"
	"testing"

	"lesson-cli/internal/model"
	m "lesson-cli/internal/model/modeltest"
)

func payloadBlock(id string, typ model.BlockType, payload string) model.Resource {
	return model.BlockResource(model.Block{ID: id, Type: typ, Payload: json.RawMessage(payload)})
}

func TestHTMLToMarkdown(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>Hello <strong>world</strong></p>", "Hello **world**"},
		{"<p>a</p><p>b</p>", "a\n\nb"},
		{"<h3>Title</h3>", "### Title"},
		{`<p>see <a href="https://example.com">this</a></p>`, "see [this](https://example.com)"},
		{"<ul><li>one</li><li>two</li></ul>", "- one\n- two"},
		{"<ol><li>one</li><li>two</li></ol>", "1. one\n2. two"},
		{"<p>x<br>y</p>", "x\ny"},
		{"<p><em>it</em> and <code>c</code></p>", "_it_ and `c`"},
		{"", ""},
	}
	for _, tc := range cases {
		got, err := HTMLToMarkdown(tc.in)
		if err != nil {
			t.Fatalf("HTMLToMarkdown(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("HTMLToMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("<p>Hello <b>bold</b> &amp; <script>x</script>friends</p><p>again</p>")
	if strings.Contains(got, "<") {
		t.Fatalf("expected tags stripped, got %q", got)
	}
	if !strings.HasPrefix(got, "Hello bold & ") || !strings.HasSuffix(got, "again") {
		t.Fatalf("unexpected plain text %q", got)
	}
}

func TestMarkdown_DocumentOrder(t *testing.T) {
	l := &model.Lesson{
		ID:    "l1",
		Title: "Fractions",
		Tree: m.Tree(
			m.Row("row-1", m.Cell("cell-1",
				payloadBlock("blk-h", model.BlockHeader, `{"text":"Intro","level":2}`),
				payloadBlock("blk-t", model.BlockText, `{"html":"<p>Halves and <em>quarters</em>.</p>"}`),
			)),
			m.Row("row-empty", m.Cell("cell-empty")),
			m.Row("row-2", m.Cell("cell-2",
				payloadBlock("blk-q", model.BlockQuiz, `{"question":"1/2 + 1/4?","options":["3/4","2/6"],"answer":0}`),
				payloadBlock("blk-i", model.BlockImage, `{"url":"pie.png","caption":"A pie"}`),
			)),
		),
	}

	got, err := Markdown(l, RenderOptions{})
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	want := strings.Join([]string{
		"# Fractions",
		"",
		"## Intro",
		"",
		"Halves and _quarters_.",
		"",
		"---",
		"",
		"> **Quiz:** 1/2 + 1/4?",
		"> - [x] 3/4",
		"> - [ ] 2/6",
		"",
		"![A pie](pie.png)",
		"",
		"_A pie_",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected markdown:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarkdown_ColumnsAndStructureMarkers(t *testing.T) {
	l := &model.Lesson{
		ID: "l1",
		Tree: m.Tree(m.Row("row-1", m.Cell("cell-1",
			m.Con("row-k", m.Cell("cell-k", m.Columns("blk-cols", []string{"blk-a"}, []string{"blk-b"}))),
		))),
	}
	got, err := Markdown(l, RenderOptions{Structure: true})
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	for _, want := range []string{"<!-- row row-1 -->", "<!-- row row-k -->", "<!-- block blk-cols -->", "<!-- block blk-b -->"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in:\n%s", want, got)
		}
	}
	if strings.Index(got, "blk-a") > strings.Index(got, "blk-b") {
		t.Fatalf("columns out of order:\n%s", got)
	}
}

func TestMarkdown_BadPayloadIsAnError(t *testing.T) {
	l := &model.Lesson{ID: "l1", Tree: m.Tree(m.Row("row-1", m.Cell("cell-1",
		payloadBlock("blk-q", model.BlockQuiz, `{"question":`),
	)))}
	if _, err := Markdown(l, RenderOptions{}); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestRenderTerminal_PlainStyle(t *testing.T) {
	out := RenderTerminal("# Hello\n\nworld", 40, "notty")
	if !strings.Contains(out, "Hello") || !strings.Contains(out, "world") {
		t.Fatalf("unexpected render: %q", out)
	}
	if RenderTerminal("   ", 40, "notty") != "" {
		t.Fatalf("expected empty output for empty markdown")
	}
}
