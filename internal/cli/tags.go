package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/dgallion1/tagextract/internal/parser"
	"github.com/spf13/cobra"
)

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags FILE",
		Short: "List the tags of a document with their counts",
		Long: `List every @tag in FILE in order of first appearance, with the number of
occurrences and the line (1-based) where it first appears.

Examples:
  tagextract tags journal.md -m
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dialect()
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			text, err := parser.ReadFile(args[0], d)
			if err != nil {
				return err
			}
			idx := outline.BuildIndex(outline.NewDocument(text, d, a.cfg.TabWidth))
			a.log.Debug("indexed document", "path", args[0], "tags", idx.Len())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tCOUNT\tFIRST LINE")
			for _, s := range idx.Summaries() {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", s.Tag, s.Count, s.FirstLine+1)
			}
			return tw.Flush()
		},
	}
}
