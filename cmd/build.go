package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarahyurick/Curator/internal/config"
	"github.com/sarahyurick/Curator/internal/doctree"
	"github.com/sarahyurick/Curator/internal/fsutil"
	"github.com/sarahyurick/Curator/internal/headmeta"
	"github.com/sarahyurick/Curator/internal/meta"
	"github.com/sarahyurick/Curator/internal/projector"
)

var (
	flagBuildConfig string
	flagBuildOut    string
	flagBuildHead   bool
	flagBuildForce  bool
	flagBuildWatch  bool
	flagBuildJobs   int
)

// buildLockFile is held inside the output directory for the whole build.
const buildLockFile = ".docmeta.lock"

var buildCmd = &cobra.Command{
	Use:   "build [source-dir]",
	Short: "Build the per-page JSON index of a docs tree",
	Long: `Project every markdown page of a docs tree into a JSON record and write
one file per page plus the root index.json (an array of every page).

The build is incremental: pages whose source is unchanged since the last
build are not rewritten. --force rebuilds everything. With --head the SEO
head fragment of each page is also written next to its JSON file.

Configuration is read from docmeta.yaml or docmeta.toml in the source
directory (or --config); defaults apply when neither exists.

Example:
  docmeta build docs/
  docmeta build --head --out _build/json docs/
  docmeta build --watch docs/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&flagBuildConfig, "config", "", "Config file (default: docmeta.yaml or docmeta.toml in the source directory)")
	buildCmd.Flags().StringVar(&flagBuildOut, "out", "", "Output directory (overrides out_dir)")
	buildCmd.Flags().BoolVar(&flagBuildHead, "head", false, "Also write <page>.head.html SEO fragments")
	buildCmd.Flags().BoolVar(&flagBuildForce, "force", false, "Rebuild every page even when unchanged")
	buildCmd.Flags().BoolVar(&flagBuildWatch, "watch", false, "Rebuild when source files change")
	buildCmd.Flags().IntVar(&flagBuildJobs, "jobs", 0, "Pages processed in parallel (default: one per CPU)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	cfg, err := loadProjectConfig(dir, flagBuildConfig)
	if err != nil {
		return err
	}
	if flagBuildOut != "" {
		cfg.OutDir = flagBuildOut
	}
	if flagBuildJobs > 0 {
		cfg.Jobs = flagBuildJobs
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	release, err := lockOutDir(cfg.OutDir)
	if err != nil {
		return err
	}
	defer release()

	printSection("docmeta build")
	if _, err := buildOnce(ctx, cfg, flagBuildForce, flagBuildHead); err != nil {
		return err
	}
	if !flagBuildWatch {
		return nil
	}
	printInfo("", fmt.Sprintf("watching %s for changes (Ctrl-C to stop)", cfg.SourceDir))
	return watchSources(ctx, cfg.SourceDir, cfg.OutDir, 300*time.Millisecond, func() {
		if _, err := buildOnce(ctx, cfg, false, flagBuildHead); err != nil {
			printErr("", err.Error())
		}
	})
}

// loadProjectConfig loads the config given by path, or the one found in
// dir. A directory without a config file builds with the defaults.
func loadProjectConfig(dir, path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	cfg = config.DefaultConfig()
	if err := cfg.ApplyEnv(dir); err != nil {
		return nil, err
	}
	cfg.SourceDir = dir
	if !filepath.IsAbs(cfg.OutDir) {
		cfg.OutDir = filepath.Join(dir, cfg.OutDir)
	}
	return cfg, nil
}

func lockOutDir(outDir string) (func(), error) {
	release, err := fsutil.Lock(filepath.Join(outDir, buildLockFile), 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("cannot lock output directory: %w", err)
	}
	return release, nil
}

// buildOnce loads the source tree and runs one build.
func buildOnce(ctx context.Context, cfg *config.Config, force, head bool) (*projector.Manifest, error) {
	start := time.Now()
	tree, err := doctree.Load(cfg.SourceDir, doctree.Options{
		Exclude: cfg.Exclude,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	opts := projector.BuildOptions{
		Tree:     tree,
		OutDir:   cfg.OutDir,
		Settings: cfg.JSONOutput,
		Site:     config.SiteMeta(cfg),
		Force:    force,
		Jobs:     cfg.Jobs,
		Logger:   slog.Default(),
	}
	if head {
		opts.Head = headFunc(tree, cfg.DocsTitle())
	}
	m, err := projector.Build(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}

	printOK("", fmt.Sprintf("%d page(s): %d written, %d unchanged, %d failed (%s)",
		m.Documents, m.Written, m.Reused, m.Failed, time.Since(start).Round(time.Millisecond)))
	printInfo("", fmt.Sprintf("output: %s (build %s)", cfg.OutDir, m.BuildID))
	if m.Failed > 0 {
		printWarn("", "some pages failed; run with --verbose for details")
	}
	return m, nil
}

// headFunc renders the head fragment of a page from its canonical record.
func headFunc(tree *doctree.Tree, siteName string) projector.HeadFunc {
	return func(doc *doctree.Doc, canonical meta.Record) (string, bool) {
		if len(canonical) == 0 {
			return "", false
		}
		_, fragment := headmeta.Head(canonical, pageContext(tree, doc.ID, siteName))
		return fragment, true
	}
}

// pageContext is what the rendered page knows about id. The root page is
// never a parent section.
func pageContext(tree *doctree.Tree, id, siteName string) headmeta.PageContext {
	page := headmeta.PageContext{
		Title:    tree.Title(id),
		SiteName: siteName,
		URL:      tree.URL(id),
	}
	if parents := projector.Ancestors(id, tree.Known); len(parents) > 0 {
		if p := parents[len(parents)-1]; p != projector.RootID {
			page.ParentTitle = tree.Title(p)
		}
	}
	return page
}
