package parser

import (
	"fmt"
	"io"
	"strings"
)

// TextLoader reads markdown, zim and plain text files verbatim.
// Line terminators are normalised to "\n" and lines may be of any length.
type TextLoader struct{}

func (p *TextLoader) Load(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}
