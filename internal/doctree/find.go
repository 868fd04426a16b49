package doctree

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExclude lists the path fragments skipped by default: build output,
// Sphinx extensions and generated API docs.
var DefaultExclude = []string{"_build", "_extensions", "apidocs"}

// FindMarkdown resolves files, directories (searched recursively) and glob
// patterns (with ** support) to a sorted, de-duplicated list of markdown
// files. Paths matching any exclude pattern are dropped.
func FindMarkdown(paths, exclude []string) ([]string, error) {
	seen := map[string]bool{}
	add := func(p string) {
		if !isMarkdown(p) || Excluded(p, exclude) {
			return
		}
		seen[filepath.Clean(p)] = true
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		switch {
		case err == nil && info.IsDir():
			for _, f := range walkMarkdown(p, slog.Default()) {
				add(f)
			}
		case err == nil:
			add(p)
		case strings.ContainsAny(p, "*?["):
			matches, err := doublestar.FilepathGlob(p)
			if err != nil {
				return nil, fmt.Errorf("cannot expand pattern %q: %w", p, err)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Excluded reports whether path matches any pattern. Plain patterns match
// as substrings of the path; patterns containing glob metacharacters match
// the slash-separated path or its base name.
func Excluded(path string, patterns []string) bool {
	slash := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if !strings.ContainsAny(pattern, "*?[{") {
			if strings.Contains(slash, pattern) {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(pattern, slash); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func walkMarkdown(root string, log *slog.Logger) []string {
	return walkMarkdownFS(os.DirFS(root), root, log)
}

// walkMarkdownFS lists markdown files under fsys, skipping hidden
// directories. Entries that cannot be read are logged and skipped.
func walkMarkdownFS(fsys fs.FS, root string, log *slog.Logger) []string {
	var out []string
	_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err != nil {
			log.Warn("skipping unreadable path", "path", full, "err", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if isMarkdown(path) {
			out = append(out, full)
		}
		return nil
	})
	return out
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}
