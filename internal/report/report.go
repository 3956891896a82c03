package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/tagextract/internal/outline"
)

// Summary prepends the dialect's summary header and a blank line to body.
func Summary(d outline.Dialect, tag, body string) string {
	return d.SummaryHeader(tag) + "\n\n" + body
}

// DefaultOutputPath derives "<file-stem>_tag-<tag>.txt" next to the input.
// A leading "@" is dropped from the tag so the name stays shell friendly.
// A dotfile without a further extension (".notes") keeps its whole name.
func DefaultOutputPath(input, tag string) string {
	stem := input
	if base := filepath.Base(input); strings.LastIndex(base, ".") > 0 {
		stem = strings.TrimSuffix(input, filepath.Ext(input))
	}
	return fmt.Sprintf("%s_tag-%s.txt", stem, strings.TrimPrefix(tag, "@"))
}

// WriteFile writes text to path, replacing any existing file.
func WriteFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
