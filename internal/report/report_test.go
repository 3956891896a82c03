package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	assert.Equal(t, "# Summary of tag: proj #\n\nbody\n", Summary(outline.Markdown, "proj", "body\n"))
	assert.Equal(t, "===== Summary of tag: proj =====\n\nbody\n", Summary(outline.Zim, "proj", "body\n"))
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input, tag, want string
	}{
		{"notes.md", "proj", "notes_tag-proj.txt"},
		{"dir/notes.txt", "@proj", "dir/notes_tag-proj.txt"},
		{"journal", "x", "journal_tag-x.txt"},
		{"a.b/notes.zim.txt", "t", "a.b/notes.zim_tag-t.txt"},
		{".notes", "proj", ".notes_tag-proj.txt"},
		{"dir/.notes", "proj", "dir/.notes_tag-proj.txt"},
		{".notes.md", "proj", ".notes_tag-proj.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultOutputPath(tt.input, tt.tag))
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.txt")
	require.NoError(t, WriteFile(path, "a much longer first version\n"))
	require.NoError(t, WriteFile(path, "short\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "short\n", string(data))
}

func TestRenderHTML(t *testing.T) {
	summary := Summary(outline.Markdown, "proj", "Build @proj\n- [x] wire <it>\n![chart](chart.png)\n")
	page, err := RenderHTML(outline.Markdown, "Summary of tag: <proj>", summary)
	require.NoError(t, err)

	s := string(page)
	assert.True(t, strings.HasPrefix(s, "<!DOCTYPE html>"))
	assert.Contains(t, s, "<title>Summary of tag: &lt;proj&gt;</title>")
	assert.Contains(t, s, "<h1>Summary of tag: proj</h1>")
	assert.Contains(t, s, `<img src="chart.png" alt="chart">`)
	assert.Contains(t, s, `type="checkbox"`)
}

func TestRenderHTML_ZimUnsupported(t *testing.T) {
	_, err := RenderHTML(outline.Zim, "t", "===== x =====\n")
	assert.True(t, errors.Is(err, ErrHTMLUnsupported))
}

func TestHTMLPath(t *testing.T) {
	assert.Equal(t, "notes_tag-a.html", HTMLPath("notes_tag-a.txt"))
	assert.Equal(t, "out.md.html", HTMLPath("out.md"))
}
