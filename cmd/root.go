package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:          "docmeta",
	Short:        "Normalize docs frontmatter and project it to JSON and SEO head metadata",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `docmeta reads markdown documentation written with legacy or v2 frontmatter
and turns it into one canonical record per page. From that record it
rewrites frontmatter in place, builds the per-page JSON search index and
renders SEO head fragments (meta tags and JSON-LD).`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug details to stderr")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		os.Exit(1)
	}
}
