package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/dgallion1/tagextract/internal/parser"
	"github.com/dgallion1/tagextract/internal/report"
	"golang.org/x/sync/errgroup"
)

// Options configures a Runner.
type Options struct {
	Dialect  outline.Dialect
	Strategy outline.Strategy
	TabWidth int
	// Workers bounds concurrent tag extractions in ExtractAll.
	Workers int
	// HTML also renders each summary to an .html page next to it.
	HTML bool
}

// Runner reads an input file, extracts tags from it and writes summaries.
type Runner struct {
	opts      Options
	extractor *outline.Extractor
	stats     *LatencyStats
	log       *slog.Logger
}

// NewRunner creates a Runner. stats may be nil.
func NewRunner(opts Options, stats *LatencyStats, log *slog.Logger) (*Runner, error) {
	if opts.Dialect == nil {
		return nil, errors.New("pipeline: dialect is required")
	}
	if opts.HTML && opts.Dialect.Name() != outline.Markdown.Name() {
		return nil, report.ErrHTMLUnsupported
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if stats == nil {
		stats = NewLatencyStats(time.Hour)
	}
	return &Runner{
		opts:      opts,
		extractor: outline.NewExtractor(opts.Strategy),
		stats:     stats,
		log:       log,
	}, nil
}

// Stats returns the runner's latency tracker.
func (r *Runner) Stats() *LatencyStats {
	return r.stats
}

// Load reads path, converting non-text formats, and classifies its lines.
func (r *Runner) Load(path string) (*outline.Document, error) {
	text, err := r.readText(path)
	if err != nil {
		return nil, err
	}
	return outline.NewDocument(text, r.opts.Dialect, r.opts.TabWidth), nil
}

func (r *Runner) readText(path string) (string, error) {
	r.log.Debug("reading input", "path", path)
	if parser.IsConverted(path) {
		r.log.Debug("converting input to outline text", "format", filepath.Ext(path))
	}
	return parser.ReadFile(path, r.opts.Dialect)
}

// ExtractTag extracts tag from input and writes the summary to out, or to
// the default "<stem>_tag-<tag>.txt" when out is empty. When the tag is
// absent a *outline.TagNotFoundError is returned and nothing is written.
func (r *Runner) ExtractTag(ctx context.Context, input, tag, out string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := r.Load(input)
	if err != nil {
		return nil, err
	}

	r.log.Debug("extracting tagged lines", "tag", tag, "strategy", r.extractor.Strategy().Name(), "lines", doc.Len())
	res, err := r.extract(doc, nil, outline.NormalizeTag(tag))
	if err != nil {
		return nil, err
	}

	if out == "" {
		out = report.DefaultOutputPath(input, tag)
	}
	return r.write(tag, res, out)
}

// ExtractAll writes one summary per tag found in input, running up to
// Options.Workers extractions at once. Per-tag failures are recorded on the
// batch; the returned error is set only when the whole run fails.
func (r *Runner) ExtractAll(ctx context.Context, input string) (*Batch, error) {
	batch := NewBatch(input)
	log := r.log.With("batch_id", batch.ID, "input", input)

	text, err := r.readText(input)
	if err != nil {
		batch.SetStatus(StatusFailed)
		return batch, err
	}
	batch.ContentHash = ContentHashHex([]byte(text))
	doc := outline.NewDocument(text, r.opts.Dialect, r.opts.TabWidth)

	idx := outline.BuildIndex(doc)
	tags := idx.Tags()
	batch.SetTotal(len(tags))
	log.Info("extracting all tags", "tags", len(tags))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.opts.Workers)
	for _, key := range tags {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			name := strings.TrimPrefix(key, "@")
			res, err := r.extract(doc, idx, key)
			if err != nil {
				batch.AddError(fmt.Sprintf("%s: %s", key, err))
				return nil
			}
			o, err := r.write(name, res, report.DefaultOutputPath(input, name))
			if err != nil {
				batch.AddError(fmt.Sprintf("%s: %s", key, err))
				return err
			}
			batch.AddOutput(*o)
			return nil
		})
	}
	werr := eg.Wait()

	order := make([]string, len(tags))
	for i, key := range tags {
		order[i] = strings.TrimPrefix(key, "@")
	}
	batch.finish(order)
	snap := batch.Snapshot()
	log.Info("batch complete", "status", snap.Status, "written", snap.Progress.TagsWritten, "errors", len(snap.Progress.Errors))

	if werr != nil && snap.Progress.TagsWritten == 0 {
		return batch, werr
	}
	return batch, nil
}

// extract runs one extraction and records its latency. idx may be nil.
func (r *Runner) extract(doc *outline.Document, idx *outline.TagIndex, key string) (*outline.Result, error) {
	start := time.Now()
	var res *outline.Result
	var err error
	if idx == nil {
		res, err = r.extractor.Extract(doc, key)
	} else {
		res, err = r.extractor.ExtractIndexed(doc, idx, key)
	}
	if errors.Is(err, outline.ErrTagNotFound) {
		r.stats.RecordMiss()
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	r.stats.Record(time.Since(start))
	return res, nil
}

func (r *Runner) write(tag string, res *outline.Result, out string) (*Output, error) {
	summary := report.Summary(r.opts.Dialect, tag, res.Text)
	r.log.Info("saving result", "tag", tag, "path", out, "lines", len(res.Lines))
	if err := report.WriteFile(out, summary); err != nil {
		return nil, err
	}

	o := &Output{Tag: tag, Path: out, Lines: len(res.Lines)}
	if r.opts.HTML {
		page, err := report.RenderHTML(r.opts.Dialect, "Summary of tag: "+tag, summary)
		if err != nil {
			return nil, err
		}
		o.HTMLPath = report.HTMLPath(out)
		if err := report.WriteFile(o.HTMLPath, string(page)); err != nil {
			return nil, err
		}
	}
	return o, nil
}
