package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFLoader handles PDF files. With UsePdftotext it tries pdftotext -layout
// first and falls back to the Go library.
type PDFLoader struct {
	UsePdftotext bool
}

func (p *PDFLoader) Load(r io.Reader, filename string) (string, error) {
	// pdflib.Open needs a path.
	tmp, err := os.CreateTemp("", "tagextract-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	var text string
	if p.UsePdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if !p.UsePdftotext || err != nil {
		text, err = extractPDFText(tmpPath)
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	// Page breaks become blank lines.
	text = strings.ReplaceAll(text, "\f", "\n\n")
	return text, nil
}

// pdfIndentStep is the horizontal distance, in points, of one nesting level.
const pdfIndentStep = 18.0

// extractPDFText rebuilds outline lines from positioned text runs. Each row
// is indented by its left offset from the page's leftmost row.
func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		runs := make([][]pdflib.Text, 0, len(rows))
		for _, row := range rows {
			runs = append(runs, row.Content)
		}
		pages = append(pages, strings.Join(pageLines(runs), "\n"))
	}
	return strings.Join(pages, "\f"), nil
}

func pageLines(rows [][]pdflib.Text) []string {
	minX := math.MaxFloat64
	for _, row := range rows {
		if len(row) > 0 && row[0].X < minX {
			minX = row[0].X
		}
	}

	var lines []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		text := strings.TrimSpace(rowText(row))
		if text == "" {
			continue
		}
		depth := int(math.Round((row[0].X - minX) / pdfIndentStep))
		lines = append(lines, strings.Repeat("\t", depth)+text)
	}
	return lines
}

// rowText joins runs, inserting a space where the gap between two runs is
// wider than a fifth of the font size.
func rowText(runs []pdflib.Text) string {
	var b strings.Builder
	for i, t := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > 0.2*t.FontSize && !strings.HasPrefix(t.S, " ") && !strings.HasSuffix(prev.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return b.String()
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
