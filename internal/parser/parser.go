package parser

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/tagextract/internal/outline"
)

// ErrInputNotFound is returned when the source path does not exist.
var ErrInputNotFound = errors.New("input file not found")

// Loader converts raw document bytes into outline text: one line per
// paragraph or list item, nesting expressed as leading tabs, headings and
// images written in the target dialect.
type Loader interface {
	Load(r io.Reader, filename string) (string, error)
}

// ForFile returns the appropriate loader for a filename. Extensions without
// a dedicated loader are read verbatim.
func ForFile(filename string, d outline.Dialect) Loader {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return &HTMLLoader{Dialect: d}
	case ".pdf":
		return &PDFLoader{UsePdftotext: true}
	case ".docx":
		return &DOCXLoader{Dialect: d}
	default:
		return &TextLoader{}
	}
}

// IsConverted reports whether a file goes through a format conversion
// rather than being read verbatim.
func IsConverted(filename string) bool {
	_, plain := ForFile(filename, outline.Markdown).(*TextLoader)
	return !plain
}

// ReadFile opens path and loads it with the loader chosen by its extension.
func ReadFile(path string, d outline.Dialect) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return "", fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	text, err := ForFile(path, d).Load(f, filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return text, nil
}
