package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/tagextract/internal/outline"
	"golang.org/x/net/html"
)

// HTMLLoader turns an HTML page into outline text. Headings become dialect
// headings, nested lists become tab-indented lines, images become dialect
// embeds and checkbox inputs become [ ] or [x] markers.
type HTMLLoader struct {
	Dialect outline.Dialect
}

func (p *HTMLLoader) Load(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	d := p.Dialect
	if d == nil {
		d = outline.Markdown
	}

	w := &outlineWriter{}
	var walk func(n *html.Node, depth int)
	walk = func(n *html.Node, depth int) {
		if n.Type == html.TextNode {
			if t := collapse(n.Data); t != "" {
				w.line(depth, t)
			}
			return
		}
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				w.blank()
				w.line(0, d.Heading(level, textContent(n)))
				w.blank()
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "ul", "ol":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c, depth+1)
				}
				return
			case "li":
				if t := inlineText(n, d); t != "" {
					w.line(depth-1, t)
				}
				// Only nested lists remain; their items sit one level deeper.
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
						walk(c, depth)
					}
				}
				return
			case "p", "blockquote", "td", "pre", "dt", "dd":
				if t := inlineText(n, d); t != "" {
					w.line(depth, t)
					if depth == 0 {
						w.blank()
					}
				}
				return
			case "img":
				w.line(depth, imageRef(n, d))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, depth)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body, 0)
	} else {
		walk(doc, 0)
	}
	return w.String(), nil
}

// outlineWriter accumulates lines and collapses runs of blank lines.
type outlineWriter struct {
	b         strings.Builder
	lastBlank bool
}

func (w *outlineWriter) line(depth int, text string) {
	if depth < 0 {
		depth = 0
	}
	w.b.WriteString(strings.Repeat("\t", depth))
	w.b.WriteString(text)
	w.b.WriteByte('\n')
	w.lastBlank = false
}

func (w *outlineWriter) blank() {
	if w.lastBlank || w.b.Len() == 0 {
		return
	}
	w.b.WriteByte('\n')
	w.lastBlank = true
}

func (w *outlineWriter) String() string {
	return w.b.String()
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// inlineText renders the inline content of n on one line, skipping nested lists.
func inlineText(n *html.Node, d outline.Dialect) string {
	var parts []string
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := collapse(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "ul", "ol", "script", "style":
				return
			case "img":
				parts = append(parts, imageRef(n, d))
				return
			case "input":
				if attr(n, "type") == "checkbox" {
					if hasAttr(n, "checked") {
						parts = append(parts, "[x]")
					} else {
						parts = append(parts, "[ ]")
					}
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extract(c)
	}
	return strings.Join(parts, " ")
}

func imageRef(n *html.Node, d outline.Dialect) string {
	return d.Image(attr(n, "alt"), attr(n, "src"))
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return collapse(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// collapse folds internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
