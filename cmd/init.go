package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sarahyurick/Curator/internal/config"
)

var (
	flagInitTOML    bool
	flagInitProject string
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default docmeta config and .env template",
	Long: `Write docmeta.yaml (or docmeta.toml with --toml) and a .env template
into dir (default: current directory). Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagInitTOML, "toml", false, "Write docmeta.toml instead of docmeta.yaml")
	initCmd.Flags().StringVar(&flagInitProject, "project", "", "Project name (default: directory name)")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	// ── 1. Create the project directory if it doesn't exist ──────────────────
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}

	// ── 2. Write the config file if missing ──────────────────────────────────
	if existing, err := config.Find(dir); err == nil {
		printSkip("", fmt.Sprintf("Config already exists: %s", existing))
	} else {
		name := config.YAMLFile
		if flagInitTOML {
			name = config.TOMLFile
		}
		cfgPath := filepath.Join(dir, name)
		if err := config.Save(initialConfig(dir, flagInitProject), cfgPath); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	}

	// ── 3. Write the .env template if missing ────────────────────────────────
	created, err := config.EnsureDotEnvTemplate(dir)
	if err != nil {
		return err
	}
	if created {
		printOK("", fmt.Sprintf(".env template written: %s", config.DotEnvPath(dir)))
	} else {
		printSkip("", fmt.Sprintf(".env already exists: %s", config.DotEnvPath(dir)))
	}

	fmt.Fprintln(stdout, "\n✓  docmeta init complete. Run 'docmeta doctor' to check your pages.")
	return nil
}

// initialConfig is the default config with the project named after dir
// unless a name is given.
func initialConfig(dir, project string) *config.Config {
	cfg := config.DefaultConfig()
	if project == "" {
		if abs, err := filepath.Abs(dir); err == nil {
			project = filepath.Base(abs)
		}
	}
	cfg.Project = project
	return cfg
}
