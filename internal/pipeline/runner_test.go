package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/dgallion1/tagextract/internal/parser"
	"github.com/dgallion1/tagextract/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notes = "# Plan\n" +
	"\n" +
	"Build @proj\n" +
	"\tstep one\n" +
	"\tstep two\n" +
	"\n" +
	"## Later\n" +
	"Call back @misc\n"

func writeNotes(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte(notes), 0o644))
	return path
}

func newRunner(t *testing.T, opts Options) *Runner {
	t.Helper()
	if opts.Dialect == nil {
		opts.Dialect = outline.Markdown
	}
	r, err := NewRunner(opts, nil, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return r
}

func expectedSummary(t *testing.T, tag string) string {
	t.Helper()
	doc := outline.NewDocument(notes, outline.Markdown, outline.DefaultTabWidth)
	res, err := outline.NewExtractor(nil).Extract(doc, tag)
	require.NoError(t, err)
	return report.Summary(outline.Markdown, tag, res.Text)
}

func TestRunner_ExtractTagDefaultPath(t *testing.T) {
	input := writeNotes(t)
	r := newRunner(t, Options{})

	out, err := r.ExtractTag(context.Background(), input, "proj", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(input), "notes_tag-proj.txt"), out.Path)
	assert.Empty(t, out.HTMLPath)

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, expectedSummary(t, "proj"), string(data))
	assert.Contains(t, string(data), "# Summary of tag: proj #\n\n")
	assert.Contains(t, string(data), "\tstep one\n")
	assert.NotContains(t, string(data), "Call back")

	assert.Equal(t, 1, r.Stats().Snapshot().Count)
}

func TestRunner_ExtractTagExplicitPath(t *testing.T) {
	input := writeNotes(t)
	r := newRunner(t, Options{})
	dest := filepath.Join(t.TempDir(), "custom.txt")

	out, err := r.ExtractTag(context.Background(), input, "@misc", dest)
	require.NoError(t, err)
	assert.Equal(t, dest, out.Path)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Summary of tag: @misc #")
	assert.Contains(t, string(data), "Call back @misc\n")
}

func TestRunner_ExtractTagNotFoundWritesNothing(t *testing.T) {
	input := writeNotes(t)
	r := newRunner(t, Options{})

	_, err := r.ExtractTag(context.Background(), input, "absent", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, outline.ErrTagNotFound))

	var nf *outline.TagNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"@proj", "@misc"}, nf.Available)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(input), "notes_tag-absent.txt"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
	assert.Equal(t, 1, r.Stats().Snapshot().Misses)
}

func TestRunner_ExtractTagNotFoundKeepsExistingOutput(t *testing.T) {
	input := writeNotes(t)
	r := newRunner(t, Options{})
	dest := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(dest, []byte("previous\n"), 0o644))

	_, err := r.ExtractTag(context.Background(), input, "absent", dest)
	require.Error(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))
}

func TestRunner_InputNotFound(t *testing.T) {
	r := newRunner(t, Options{})
	_, err := r.ExtractTag(context.Background(), filepath.Join(t.TempDir(), "gone.md"), "proj", "")
	assert.True(t, errors.Is(err, parser.ErrInputNotFound))

	batch, err := r.ExtractAll(context.Background(), filepath.Join(t.TempDir(), "gone.md"))
	assert.True(t, errors.Is(err, parser.ErrInputNotFound))
	assert.Equal(t, StatusFailed, batch.Snapshot().Status)
}

func TestRunner_ExtractTagCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRunner(t, Options{})
	_, err := r.ExtractTag(ctx, writeNotes(t), "proj", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_ExtractAll(t *testing.T) {
	input := writeNotes(t)
	r := newRunner(t, Options{Workers: 2})

	batch, err := r.ExtractAll(context.Background(), input)
	require.NoError(t, err)

	snap := batch.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 2, snap.Progress.TotalTags)
	assert.Equal(t, 2, snap.Progress.TagsWritten)
	require.Len(t, snap.Outputs, 2)
	assert.Equal(t, "proj", snap.Outputs[0].Tag)
	assert.Equal(t, "misc", snap.Outputs[1].Tag)
	assert.Equal(t, ContentHashHex([]byte(notes)), batch.ContentHash)

	data, err := os.ReadFile(filepath.Join(filepath.Dir(input), "notes_tag-proj.txt"))
	require.NoError(t, err)
	assert.Equal(t, expectedSummary(t, "proj"), string(data))

	_, err = os.Stat(filepath.Join(filepath.Dir(input), "notes_tag-misc.txt"))
	assert.NoError(t, err)
	assert.Equal(t, 2, r.Stats().Snapshot().Count)
}

func TestRunner_ExtractAllNoTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.md")
	require.NoError(t, os.WriteFile(path, []byte("nothing tagged\n"), 0o644))

	batch, err := newRunner(t, Options{}).ExtractAll(context.Background(), path)
	require.NoError(t, err)
	snap := batch.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Empty(t, snap.Outputs)
}

func TestRunner_HTML(t *testing.T) {
	input := writeNotes(t)
	r := newRunner(t, Options{HTML: true})

	out, err := r.ExtractTag(context.Background(), input, "proj", "")
	require.NoError(t, err)
	require.NotEmpty(t, out.HTMLPath)

	page, err := os.ReadFile(out.HTMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h1>Summary of tag: proj</h1>")
	assert.Contains(t, string(page), "<title>Summary of tag: proj</title>")
}

func TestNewRunner_Validation(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	_, err := NewRunner(Options{}, nil, log)
	assert.Error(t, err)

	_, err = NewRunner(Options{Dialect: outline.Zim, HTML: true}, nil, log)
	assert.ErrorIs(t, err, report.ErrHTMLUnsupported)
}
