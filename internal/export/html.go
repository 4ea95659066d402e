package export

import (
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var stripTagsPolicy = bluemonday.StrictPolicy()

// PlainText strips every tag from an HTML fragment and collapses whitespace.
// Used for one-line previews.
func PlainText(src string) string {
	src = strings.NewReplacer("<br>", " ", "<br/>", " ", "</p>", " ", "</li>", " ").Replace(src)
	out := html.UnescapeString(stripTagsPolicy.Sanitize(src))
	return strings.Join(strings.Fields(out), " ")
}

// HTMLToMarkdown converts the small HTML subset the text editor produces
// (paragraphs, headings, emphasis, links, lists, code, line breaks) into
// Markdown. Unknown elements contribute their text only.
func HTMLToMarkdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return "", err
	}
	var w mdWriter
	for _, n := range nodes {
		w.node(n)
	}
	return w.String(), nil
}

type mdWriter struct {
	b strings.Builder
	// list nesting: one entry per open list, >0 for ordered lists (next number), 0 for bullets.
	lists []int
}

func (w *mdWriter) String() string {
	lines := strings.Split(w.b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}

func (w *mdWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

func (w *mdWriter) wrap(n *html.Node, mark string) {
	w.b.WriteString(mark)
	w.children(n)
	w.b.WriteString(mark)
}

func (w *mdWriter) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	switch n.DataAtom {
	case atom.P, atom.Div:
		w.children(n)
		w.b.WriteString("\n\n")
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		w.b.WriteString(strings.Repeat("#", level) + " ")
		w.children(n)
		w.b.WriteString("\n\n")
	case atom.Strong, atom.B:
		w.wrap(n, "**")
	case atom.Em, atom.I:
		w.wrap(n, "_")
	case atom.S, atom.Del:
		w.wrap(n, "~~")
	case atom.Code:
		w.wrap(n, "`")
	case atom.Pre:
		w.b.WriteString("```\n")
		w.b.WriteString(strings.TrimRight(textContent(n), "\n"))
		w.b.WriteString("\n```\n\n")
	case atom.Br:
		w.b.WriteString("\n")
	case atom.A:
		href := attr(n, "href")
		if href == "" {
			w.children(n)
			return
		}
		w.b.WriteString("[")
		w.children(n)
		w.b.WriteString("](" + href + ")")
	case atom.Img:
		w.b.WriteString("![" + attr(n, "alt") + "](" + attr(n, "src") + ")")
	case atom.Ul, atom.Ol:
		start := 0
		if n.DataAtom == atom.Ol {
			start = 1
		}
		w.lists = append(w.lists, start)
		w.children(n)
		w.lists = w.lists[:len(w.lists)-1]
		if len(w.lists) == 0 {
			w.b.WriteString("\n")
		}
	case atom.Li:
		depth := len(w.lists)
		if depth == 0 {
			depth = 1
			w.lists = append(w.lists, 0)
			defer func() { w.lists = w.lists[:0] }()
		}
		w.b.WriteString(strings.Repeat("  ", depth-1))
		if k := w.lists[depth-1]; k > 0 {
			w.b.WriteString(strconv.Itoa(k) + ". ")
			w.lists[depth-1]++
		} else {
			w.b.WriteString("- ")
		}
		w.children(n)
		w.b.WriteString("\n")
	case atom.Blockquote:
		var inner mdWriter
		inner.children(n)
		for _, line := range strings.Split(inner.String(), "\n") {
			w.b.WriteString("> " + line + "\n")
		}
		w.b.WriteString("\n")
	case atom.Script, atom.Style:
	default:
		w.children(n)
	}
}

func (w *mdWriter) text(s string) {
	if strings.TrimSpace(s) == "" {
		if s != "" && w.b.Len() > 0 && !strings.HasSuffix(w.b.String(), "\n") {
			w.b.WriteString(" ")
		}
		return
	}
	lead := s[0] == ' ' || s[0] == '\n' || s[0] == '\t'
	trail := strings.ContainsAny(s[len(s)-1:], " \n\t")
	s = strings.Join(strings.Fields(s), " ")
	if lead && w.b.Len() > 0 && !strings.HasSuffix(w.b.String(), "\n") {
		w.b.WriteString(" ")
	}
	w.b.WriteString(s)
	if trail {
		w.b.WriteString(" ")
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
