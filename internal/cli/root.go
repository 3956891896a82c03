package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/tagextract/internal/config"
	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries flag values and resolved configuration for one invocation.
type app struct {
	cfgFile  string
	verbose  bool
	markdown bool
	zim      bool

	out   string
	html  bool
	all   bool
	watch bool

	v   *viper.Viper
	cfg config.Config
	log *slog.Logger
}

// NewRootCmd builds the command tree. Each call returns independent state.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tagextract FILE TAG",
		Short: "Extract the lines that belong to an @tag from an outline document",
		Long: `tagextract collects every line of an outline document that belongs to an
inline @tag and writes them, left-justified and in document order, under a
summary header.

A line belongs to a tag when it sits in the tag's indentation block: the
lines above it up to a heading or a shallower ancestor, and the lines below
it down to a heading or a dedent. Images and blank lines inside the block
are kept.

Examples:
  # Extract @proj from a markdown journal into journal_tag-proj.txt
  tagextract journal.md proj -m

  # Zim wiki page, explicit output file
  tagextract Home.txt @todo -z -o todo.txt

  # Every tag of the document, one file each
  tagextract journal.md -m --all

  # Re-extract whenever the file is saved
  tagextract journal.md proj -m --watch
`,
		Args:              a.validateArgs,
		PersistentPreRunE: a.setup,
		RunE:              a.runExtract,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./.tagextract.yaml or $HOME/.tagextract.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "show processing messages")
	pf.BoolVarP(&a.markdown, "markdown", "m", false, "input uses markdown syntax")
	pf.BoolVarP(&a.zim, "zim", "z", false, "input uses zim wiki syntax")
	pf.String("strategy", "indent", "context search strategy: indent or checkbox")
	pf.Int("tab-width", outline.DefaultTabWidth, "columns per indentation level")
	root.MarkFlagsMutuallyExclusive("markdown", "zim")

	f := root.Flags()
	f.StringVarP(&a.out, "out", "o", "", "output file (default <file-stem>_tag-<tag>.txt)")
	f.BoolVar(&a.html, "html", false, "also render the summary as HTML (markdown only)")
	f.BoolVar(&a.all, "all", false, "extract every tag in FILE into its own output file")
	f.BoolVar(&a.watch, "watch", false, "re-extract whenever FILE changes, until interrupted")
	f.Int("workers", 4, "concurrent extractions for --all")
	root.MarkFlagsMutuallyExclusive("all", "out")

	root.AddCommand(newTagsCmd(a), newServeCmd(a))
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}

func (a *app) validateArgs(cmd *cobra.Command, args []string) error {
	if a.all {
		return cobra.ExactArgs(1)(cmd, args)
	}
	return cobra.ExactArgs(2)(cmd, args)
}

// setup loads configuration and the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.v = viper.New()
	binds := map[string]string{
		"strategy":      "strategy",
		"tab_width":     "tab-width",
		"batch.workers": "workers",
		"server.port":   "port",
	}
	for key, name := range binds {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := a.v.BindPFlag(key, fl); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.log = newLogger(cmd.ErrOrStderr(), a.verbose)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("using config file", "path", used)
	}
	return nil
}

// dialect resolves -m/-z, falling back to the configured dialect.
func (a *app) dialect() (outline.Dialect, error) {
	switch {
	case a.markdown:
		return outline.Markdown, nil
	case a.zim:
		return outline.Zim, nil
	case a.cfg.Dialect != "":
		return outline.DialectByName(a.cfg.Dialect)
	default:
		return nil, errors.New("one of --markdown (-m) or --zim (-z) is required")
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
