package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/fumiama/go-docx"
)

// DOCXLoader handles .docx files. Heading styles become dialect headings and
// list paragraphs are indented by their numbering level.
type DOCXLoader struct {
	Dialect outline.Dialect
}

func (p *DOCXLoader) Load(r io.Reader, filename string) (string, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "tagextract-docx-*.docx")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	d := p.Dialect
	if d == nil {
		d = outline.Markdown
	}

	w := &outlineWriter{}
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			w.blank()
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			w.blank()
			w.line(0, d.Heading(level, text))
			w.blank()
			continue
		}
		w.line(docxListLevel(para), text)
	}
	return w.String(), nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(style, "heading"))
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

// docxListLevel returns the numbering level of a list paragraph, 0 otherwise.
func docxListLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.NumProperties == nil {
		return 0
	}
	ilvl := para.Properties.NumProperties.Ilvl
	if ilvl == nil {
		return 0
	}
	n, err := strconv.Atoi(ilvl.Val)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
