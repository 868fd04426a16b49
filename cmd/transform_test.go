package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sarahyurick/Curator/internal/doctree"
	"github.com/sarahyurick/Curator/internal/rewrite"
)

func writeTemp(t *testing.T, dir, name, content string, perm os.FileMode) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), perm); err != nil {
		t.Fatal(err)
	}
	return p
}

func readTemp(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestTransformFiles_RewritesLegacy(t *testing.T) {
	dir := t.TempDir()
	legacy := writeTemp(t, dir, "legacy.md", "---\ncategories: [curation]\n---\n# Title\n", 0o600)
	v2 := writeTemp(t, dir, "v2.md", "---\ncontent: {type: Tutorial}\n---\nbody\n", 0o644)
	bare := writeTemp(t, dir, "bare.md", "# No frontmatter\n", 0o644)

	sum := transformFiles([]string{legacy, v2, bare}, rewrite.Options{}, false)
	if sum.Files != 3 || sum.Modified != 1 || sum.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.Skipped[rewrite.SkippedAlreadyV2] != 1 || sum.Skipped[rewrite.SkippedNoFrontmatter] != 1 {
		t.Fatalf("unexpected skips: %+v", sum.Skipped)
	}

	if got, want := readTemp(t, legacy), "---\ntopics: [curation]\n---\n# Title\n"; got != want {
		t.Fatalf("legacy file mismatch:\ngot  %q\nwant %q", got, want)
	}
	if got := readTemp(t, bare); got != "# No frontmatter\n" {
		t.Fatalf("bare file modified: %q", got)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(legacy)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Fatalf("file mode not preserved: %v", info.Mode().Perm())
		}
	}
}

func TestTransformFiles_DryRunLeavesFiles(t *testing.T) {
	dir := t.TempDir()
	content := "---\npersonas: [mle-focused]\n---\nbody\n"
	p := writeTemp(t, dir, "a.md", content, 0o644)

	sum := transformFiles([]string{p}, rewrite.Options{}, true)
	if sum.Modified != 1 {
		t.Fatalf("expected one would-modify, got %+v", sum)
	}
	if got := readTemp(t, p); got != content {
		t.Fatalf("dry run modified file: %q", got)
	}
}

func TestTransformFiles_ForceIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "a.md", "---\ndifficulty: beginner\ncontent_type: tutorial\ntags: [x]\n---\nbody\n", 0o644)

	transformFiles([]string{p}, rewrite.Options{}, false)
	first := readTemp(t, p)

	sum := transformFiles([]string{p}, rewrite.Options{Force: true}, false)
	if sum.Modified != 0 {
		t.Fatalf("forced rerun changed an already-transformed file: %+v", sum)
	}
	if got := readTemp(t, p); got != first {
		t.Fatalf("forced rerun not idempotent:\nfirst %q\nthen  %q", first, got)
	}
}

func TestTransformFiles_UnreadableCounted(t *testing.T) {
	sum := transformFiles([]string{filepath.Join(t.TempDir(), "missing.md")}, rewrite.Options{}, false)
	if sum.Failed != 1 || sum.Modified != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &buf, &buf
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return &buf
}

func TestRunTransform_DryRunSummary(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "legacy.md", "---\ncategories: [curation]\n---\nbody\n", 0o644)
	writeTemp(t, dir, "v2.md", "---\ncontent: {type: Tutorial}\n---\nbody\n", 0o644)
	writeTemp(t, dir, "_build/skip.md", "---\npersonas: [mle-focused]\n---\n", 0o644)

	flagTransformDryRun, flagTransformExclude = true, doctree.DefaultExclude
	t.Cleanup(func() { flagTransformDryRun = false })
	out := captureOutput(t)

	if err := runTransform(nil, []string{dir}); err != nil {
		t.Fatalf("runTransform: %v", err)
	}
	if !strings.Contains(out.String(), "Would modify: 1/2 files") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunTransform_NoFiles(t *testing.T) {
	captureOutput(t)
	if err := runTransform(nil, []string{t.TempDir()}); err == nil {
		t.Fatal("expected error when no markdown files match")
	}
}
