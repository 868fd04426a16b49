package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarahyurick/Curator/internal/doctree"
	"github.com/sarahyurick/Curator/internal/fsutil"
	"github.com/sarahyurick/Curator/internal/rewrite"
)

var (
	flagTransformDryRun          bool
	flagTransformForce           bool
	flagTransformExclude         []string
	flagTransformCanonicalLabels bool
)

var transformCmd = &cobra.Command{
	Use:   "transform [paths...]",
	Short: "Rewrite legacy frontmatter in the v2 schema",
	Long: `Rewrite the YAML frontmatter of markdown files in the canonical v2 schema.

Paths can be files, directories (searched recursively for *.md) or glob
patterns (** supported). The body of each file is kept unchanged.

Files already in the v2 schema are skipped unless --force is given, which
reformats them. Running transform twice with --force leaves files unchanged.

Example:
  docmeta transform docs/
  docmeta transform -n 'docs/**/index.md'
  docmeta transform --exclude _build,apidocs,'*.draft.md' .`,
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().BoolVarP(&flagTransformDryRun, "dry-run", "n", false, "Show what would change without modifying files")
	transformCmd.Flags().BoolVarP(&flagTransformForce, "force", "f", false, "Re-process files already in the v2 schema (to update formatting)")
	transformCmd.Flags().StringSliceVar(&flagTransformExclude, "exclude", doctree.DefaultExclude, "Path fragments or globs to exclude")
	transformCmd.Flags().BoolVar(&flagTransformCanonicalLabels, "canonical-labels", false, "Map legacy content type, difficulty and persona labels to their display form")
	rootCmd.AddCommand(transformCmd)
}

type transformSummary struct {
	Files    int
	Modified int
	Failed   int
	Skipped  map[rewrite.Status]int
}

func runTransform(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := doctree.FindMarkdown(args, flagTransformExclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no markdown files found")
	}

	printSection("docmeta transform")
	fmt.Fprintf(stdout, "Found %d markdown files\n", len(files))
	if flagTransformDryRun {
		fmt.Fprintln(stdout, "[DRY RUN MODE - no files will be modified]")
	} else {
		release, err := fsutil.Lock(transformLockPath(), 30*time.Second)
		if err != nil {
			return err
		}
		defer release()
	}

	sum := transformFiles(files, rewrite.Options{
		Force:           flagTransformForce,
		CanonicalLabels: flagTransformCanonicalLabels,
	}, flagTransformDryRun)

	verb := "Modified"
	if flagTransformDryRun {
		verb = "Would modify"
	}
	if len(sum.Skipped) > 0 {
		printBullet("Skipped:")
		for _, s := range []rewrite.Status{rewrite.SkippedNoFrontmatter, rewrite.SkippedMalformed, rewrite.SkippedAlreadyV2, rewrite.SkippedEmpty} {
			if n := sum.Skipped[s]; n > 0 {
				printSkip("", fmt.Sprintf("%d %s", n, s))
			}
		}
	}
	fmt.Fprintf(stdout, "\n%s: %d/%d files\n", verb, sum.Modified, sum.Files)
	if sum.Failed > 0 {
		printWarn("", fmt.Sprintf("%d file(s) could not be read or written", sum.Failed))
	}
	return nil
}

// transformFiles rewrites each file in place, or only reports when dryRun is
// set. A file that cannot be read or written is reported and skipped.
func transformFiles(files []string, opts rewrite.Options, dryRun bool) transformSummary {
	sum := transformSummary{Files: len(files), Skipped: map[rewrite.Status]int{}}
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			printErr(f, fmt.Sprintf("cannot read: %v", err))
			sum.Failed++
			continue
		}

		res := rewrite.Transform(string(b), opts)
		switch res.Status {
		case rewrite.Rewritten:
		case rewrite.SkippedMalformed:
			printWarn(f, fmt.Sprintf("%v, skipping", res.Err))
			sum.Skipped[res.Status]++
			continue
		case rewrite.SkippedAlreadyV2:
			printSkip(f, "already v2 schema, skipping (use --force to reformat)")
			sum.Skipped[res.Status]++
			continue
		default:
			printSkip(f, res.Status.String()+", skipping")
			sum.Skipped[res.Status]++
			continue
		}

		if !res.Changed {
			printSkip(f, "unchanged")
			continue
		}
		if dryRun {
			printInfo(f, "would transform to:")
			fmt.Fprintln(stdout, "  ---")
			for _, line := range strings.Split(res.YAML, "\n") {
				fmt.Fprintf(stdout, "  %s\n", line)
			}
			fmt.Fprintln(stdout, "  ---")
			sum.Modified++
			continue
		}

		if err := fsutil.WriteFile(f, []byte(res.Text), fsutil.FileMode(f, 0o644)); err != nil {
			printErr(f, fmt.Sprintf("cannot write: %v", err))
			sum.Failed++
			continue
		}
		printOK(f, "transformed")
		sum.Modified++
	}
	return sum
}

// transformLockPath determines the per-user lock path that keeps two
// transform runs from rewriting files at the same time.
func transformLockPath() string {
	if cacheDir, err := os.UserCacheDir(); err == nil && cacheDir != "" {
		return filepath.Join(cacheDir, "docmeta", "transform.lock")
	}
	return filepath.Join(os.TempDir(), "docmeta-transform.lock")
}
