package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarahyurick/Curator/internal/extract"
	"github.com/sarahyurick/Curator/internal/headmeta"
	"github.com/sarahyurick/Curator/internal/meta"
	"github.com/sarahyurick/Curator/internal/rewrite"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show raw and canonical frontmatter of a page",
	Long: `Display the frontmatter of a markdown page as written, the canonical
record it normalizes to, the enhanced page title and its schema status.

Example:
  docmeta inspect docs/curate/text/dedup.md`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// schemaStatus describes which frontmatter schema raw is written in.
func schemaStatus(raw meta.Record) string {
	switch {
	case len(raw) == 0:
		return "none"
	case rewrite.IsV2(raw):
		return "v2"
	case meta.HasLegacyKeys(raw):
		return "legacy"
	}
	return "unclassified"
}

func runInspect(_ *cobra.Command, args []string) error {
	doc, err := readDoc(args[0])
	if err != nil {
		return err
	}
	printInspect(doc.Path, doc.Raw, doc.Body, doc.Err)
	return nil
}

func printInspect(path string, raw meta.Record, body string, parseErr error) {
	fmt.Fprintf(stdout, "\n%s\n", path)
	fmt.Fprintln(stdout, strings.Repeat("─", 50))

	if parseErr != nil {
		printErr("", fmt.Sprintf("frontmatter: %v", parseErr))
	}
	status := schemaStatus(raw)
	fmt.Fprintf(stdout, "Schema:   %s\n", status)

	title := extract.Title(body)
	canonical := meta.Normalize(raw)
	if t, ok := headmeta.BuildPageTitle(canonical, headmeta.PageContext{Title: title}); ok {
		fmt.Fprintf(stdout, "Title:    %s\n", t)
	} else {
		fmt.Fprintf(stdout, "Title:    (none)\n")
	}

	if legacy := presentLegacyKeys(raw); len(legacy) > 0 {
		fmt.Fprintf(stdout, "Legacy:   %s\n", strings.Join(legacy, ", "))
	}

	if len(raw) == 0 {
		printMiss("", "no frontmatter")
		return
	}

	fmt.Fprintln(stdout, "\n[ Raw ]")
	out, err := yaml.Marshal(raw)
	if err != nil {
		printErr("", fmt.Sprintf("cannot render raw frontmatter: %v", err))
	} else {
		printIndented(strings.TrimRight(string(out), "\n"))
	}

	fmt.Fprintln(stdout, "\n[ Canonical ]")
	if len(canonical) == 0 {
		printSkip("", "empty after normalization")
		return
	}
	printIndented(rewrite.Serialize(canonical))
}

func presentLegacyKeys(raw meta.Record) []string {
	var out []string
	for _, k := range meta.LegacyKeys {
		if _, ok := raw[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func printIndented(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(stdout, "  %s\n", line)
	}
}
