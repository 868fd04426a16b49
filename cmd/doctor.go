package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarahyurick/Curator/internal/config"
	"github.com/sarahyurick/Curator/internal/doctree"
	"github.com/sarahyurick/Curator/internal/meta"
)

var flagDoctorExclude []string

var doctorCmd = &cobra.Command{
	Use:   "doctor [paths...]",
	Short: "Check project config and page frontmatter health",
	Long: `Check that the project config loads, then scan markdown pages for
frontmatter problems: malformed YAML, pages still in the legacy schema,
pages without frontmatter and pages without a description.

Run 'docmeta transform' to migrate legacy pages.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringSliceVar(&flagDoctorExclude, "exclude", doctree.DefaultExclude, "Path fragments or globs to exclude")
	rootCmd.AddCommand(doctorCmd)
}

// pageHealth is the doctor verdict for one page.
type pageHealth struct {
	Malformed     error
	NoFrontmatter bool
	Legacy        bool
	NoDescription bool
}

// diagnosePage inspects the frontmatter of one source file.
func diagnosePage(b []byte) pageHealth {
	raw, _, err := doctree.ParseFrontmatter(b)
	if err != nil {
		return pageHealth{Malformed: err}
	}
	if len(raw) == 0 {
		return pageHealth{NoFrontmatter: true}
	}
	return pageHealth{
		Legacy:        meta.HasLegacyKeys(raw),
		NoDescription: !meta.Truthy(meta.Normalize(raw)["description"]),
	}
}

func runDoctor(_ *cobra.Command, args []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("docmeta doctor")
	fmt.Fprintln(stdout)

	// ── Check 1: project config ─────────────────────────────────────────────
	fmt.Fprintln(stdout, "[ Config ]")
	cfg, err := config.Load(".")
	switch {
	case errors.Is(err, config.ErrNotFound):
		printSkip("", "no docmeta.yaml or docmeta.toml here, defaults apply (run 'docmeta init')")
	case err != nil:
		failD("cannot load config: %v", err)
	default:
		printOK("", fmt.Sprintf("%s loaded", cfg.Path))
		if cfg.BaseURL == "" {
			printWarn("", "base_url is empty, page URLs will be relative")
		}
		if _, err := os.Stat(cfg.SourceDir); err != nil {
			failD("source_dir %s: %v", cfg.SourceDir, err)
		}
	}
	fmt.Fprintln(stdout)

	// ── Check 2: page frontmatter ───────────────────────────────────────────
	fmt.Fprintln(stdout, "[ Frontmatter ]")
	if len(args) == 0 {
		args = []string{"."}
		if cfg != nil {
			args = []string{cfg.SourceDir}
		}
	}
	files, err := doctree.FindMarkdown(args, flagDoctorExclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		failD("no markdown files found")
	}

	var legacy, missing, bare, malformed int
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			failD("[%s] cannot read: %v", f, err)
			continue
		}
		h := diagnosePage(b)
		switch {
		case h.Malformed != nil:
			failD("[%s] %v", f, h.Malformed)
			malformed++
		case h.NoFrontmatter:
			printMiss(f, "no frontmatter")
			bare++
		default:
			if h.Legacy {
				printWarn(f, "legacy schema (run 'docmeta transform')")
				legacy++
			}
			if h.NoDescription {
				printWarn(f, "no description")
				missing++
			}
		}
	}
	if legacy > 0 {
		allOK = false
	}
	fmt.Fprintf(stdout, "\n  %d page(s): %d malformed, %d legacy, %d without frontmatter, %d without description\n",
		len(files), malformed, legacy, bare, missing)
	fmt.Fprintln(stdout)

	// ── Summary ──────────────────────────────────────────────────────────────────
	fmt.Fprintln(stdout, "===================")
	if allOK {
		fmt.Fprintln(stdout, "✓  All checks passed.")
	} else {
		fmt.Fprintln(stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}
