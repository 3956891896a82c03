package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// ErrHTMLUnsupported is returned when rendering a non-markdown summary.
var ErrHTMLUnsupported = errors.New("html rendering requires the markdown dialect")

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// Outline lines are separate items even without a blank line between them.
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// RenderHTML converts a markdown summary into a standalone HTML page.
func RenderHTML(d outline.Dialect, title, summary string) ([]byte, error) {
	if d.Name() != outline.Markdown.Name() {
		return nil, ErrHTMLUnsupported
	}

	var body bytes.Buffer
	if err := md.Convert([]byte(summary), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(title))
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// HTMLPath returns the HTML companion path for a summary file.
func HTMLPath(summaryPath string) string {
	return strings.TrimSuffix(summaryPath, ".txt") + ".html"
}
