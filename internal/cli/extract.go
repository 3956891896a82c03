package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/dgallion1/tagextract/internal/pipeline"
	"github.com/dgallion1/tagextract/internal/watch"
	"github.com/spf13/cobra"
)

func (a *app) runExtract(cmd *cobra.Command, args []string) error {
	d, err := a.dialect()
	if err != nil {
		return err
	}
	strategy, err := outline.StrategyByName(a.cfg.Strategy)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	runner, err := pipeline.NewRunner(pipeline.Options{
		Dialect:  d,
		Strategy: strategy,
		TabWidth: a.cfg.TabWidth,
		Workers:  a.cfg.Batch.Workers,
		HTML:     a.html,
	}, nil, a.log)
	if err != nil {
		return err
	}

	input := args[0]
	run := func(ctx context.Context) error {
		if a.all {
			return a.extractAll(ctx, cmd.OutOrStdout(), runner, input)
		}
		return a.extractTag(ctx, cmd.ErrOrStderr(), runner, input, args[1])
	}

	if err := run(cmd.Context()); err != nil {
		return err
	}
	if !a.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	w, err := watch.New(input, a.cfg.Watch.Debounce, run, a.log)
	if err != nil {
		return err
	}
	a.log.Info("watching for changes", "path", input, "debounce", a.cfg.Watch.Debounce)
	w.Run(ctx)
	return nil
}

// extractTag writes one summary. A missing tag is reported on stderr with
// the tags that do exist and is not an error.
func (a *app) extractTag(ctx context.Context, stderr io.Writer, runner *pipeline.Runner, input, tag string) error {
	out, err := runner.ExtractTag(ctx, input, tag, a.out)
	var nf *outline.TagNotFoundError
	if errors.As(err, &nf) {
		printNotFound(stderr, input, nf)
		return nil
	}
	if err != nil {
		return err
	}
	a.log.Debug("summary written", "path", out.Path, "lines", out.Lines, "html", out.HTMLPath)
	return nil
}

func (a *app) extractAll(ctx context.Context, stdout io.Writer, runner *pipeline.Runner, input string) error {
	batch, err := runner.ExtractAll(ctx, input)
	if err != nil {
		return err
	}
	snap := batch.Snapshot()
	for _, o := range snap.Outputs {
		fmt.Fprintf(stdout, "%s\t%s\n", o.Tag, o.Path)
	}
	for _, e := range snap.Progress.Errors {
		a.log.Warn("tag failed", "error", e)
	}
	if snap.Status == pipeline.StatusFailed {
		return fmt.Errorf("no summaries written for %s", input)
	}
	return nil
}

func printNotFound(w io.Writer, input string, nf *outline.TagNotFoundError) {
	fmt.Fprintf(w, "Tag %s not found in %s.\n", nf.Tag, input)
	if len(nf.Available) == 0 {
		fmt.Fprintln(w, "The document has no tags.")
		return
	}
	fmt.Fprintln(w, "Available tags:")
	for _, t := range nf.Available {
		fmt.Fprintf(w, "  %s\n", t)
	}
}
