package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/sarahyurick/Curator/internal/doctree"
	"github.com/sarahyurick/Curator/internal/headmeta"
	"github.com/sarahyurick/Curator/internal/meta"
)

var flagHeadConfig string

var headCmd = &cobra.Command{
	Use:   "head <file>",
	Short: "Print the SEO head fragment of one page",
	Long: `Print the enhanced page title and the head fragment (meta tags and
JSON-LD) that docmeta renders for a markdown page.

The page is resolved inside the source directory of the project config,
which supplies the base URL, site name and parent section titles.

Example:
  docmeta head docs/curate/text/dedup.md`,
	Args: cobra.ExactArgs(1),
	RunE: runHead,
}

func init() {
	headCmd.Flags().StringVar(&flagHeadConfig, "config", "", "Config file (default: docmeta.yaml or docmeta.toml in the current directory)")
	rootCmd.AddCommand(headCmd)
}

func runHead(_ *cobra.Command, args []string) error {
	file := args[0]
	cfg, err := loadProjectConfig(".", flagHeadConfig)
	if err != nil {
		return err
	}
	tree, err := doctree.Load(cfg.SourceDir, doctree.Options{Exclude: cfg.Exclude, BaseURL: cfg.BaseURL})
	if err != nil {
		return err
	}
	id, err := docID(cfg.SourceDir, file)
	if err != nil {
		return err
	}
	doc, ok := tree.Doc(id)
	if !ok {
		return fmt.Errorf("%s is not a page of %s", file, cfg.SourceDir)
	}

	page := pageContext(tree, id, cfg.DocsTitle())
	if !headmeta.Apply(meta.Normalize(doc.Raw), &page) {
		printSkip(id, "no frontmatter metadata, nothing to render")
		return nil
	}
	printHead(page)
	return nil
}

// printHead writes the page's head additions as they would be injected,
// one element per indented line.
func printHead(page headmeta.PageContext) {
	if page.PageTitle != "" {
		fmt.Fprintf(stdout, "    <title>%s</title>\n", html.EscapeString(page.PageTitle))
	}
	fmt.Fprintln(stdout, strings.TrimLeft(page.MetaTags, "\n"))
}

// docID maps a source file to its document id relative to sourceDir.
func docID(sourceDir, file string) (string, error) {
	absSrc, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absSrc, absFile)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the source directory %s", file, sourceDir)
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel)), nil
}

// readDoc loads a single markdown file outside of any tree.
func readDoc(file string) (*doctree.Doc, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", file, err)
	}
	doc := &doctree.Doc{Path: file}
	doc.Raw, doc.Body, doc.Err = doctree.ParseFrontmatter(b)
	return doc, nil
}
