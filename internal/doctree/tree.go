// Package doctree loads a directory of markdown sources into a document tree
// keyed by document id, the slash-separated source path without extension.
package doctree

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"

	"github.com/sarahyurick/Curator/internal/extract"
	"github.com/sarahyurick/Curator/internal/meta"
	"github.com/sarahyurick/Curator/internal/rewrite"
)

// RootID is the id of the top-level index document.
const RootID = "index"

// Doc is one loaded source document.
type Doc struct {
	ID      string
	Path    string
	Title   string
	Raw     meta.Record
	Body    string
	ModTime time.Time
	// Hash is the hex sha256 of the source bytes.
	Hash string
	// Err is set when the frontmatter could not be parsed; Raw is then nil.
	Err error
}

// Options controls Load.
type Options struct {
	Exclude []string
	BaseURL string
	Logger  *slog.Logger
}

// Tree is an immutable set of documents.
type Tree struct {
	root    string
	baseURL string
	docs    map[string]*Doc
	ids     []string
}

var (
	tomlFormat = frontmatter.NewFormat("+++", "+++", toml.Unmarshal)
	jsonFormat = frontmatter.NewFormat(";;;", ";;;", json.Unmarshal)
)

// Load reads every markdown file under root. Files that cannot be read are
// logged and skipped.
func Load(root string, opts Options) (*Tree, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot stat source directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path is not a directory: %s", root)
	}

	files := walkMarkdown(root, log)

	t := &Tree{
		root:    root,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		docs:    make(map[string]*Doc, len(files)),
	}
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			return nil, err
		}
		if Excluded(rel, opts.Exclude) {
			continue
		}
		doc, err := loadDoc(f, rel)
		if err != nil {
			log.Warn("skipping unreadable document", "path", f, "err", err)
			continue
		}
		if doc.Err != nil {
			log.Warn("malformed frontmatter, treating as absent", "doc", doc.ID, "err", doc.Err)
		}
		t.docs[doc.ID] = doc
		t.ids = append(t.ids, doc.ID)
	}
	sort.Strings(t.ids)
	return t, nil
}

func loadDoc(path, rel string) (*Doc, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	sum := sha256.Sum256(b)

	doc := &Doc{
		ID:      strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel)),
		Path:    path,
		ModTime: info.ModTime().UTC(),
		Hash:    hex.EncodeToString(sum[:]),
	}
	doc.Raw, doc.Body, doc.Err = ParseFrontmatter(b)

	doc.Title = extract.Title(doc.Body)
	if doc.Title == "" {
		doc.Title = meta.GetString(meta.Normalize(doc.Raw), "title", "page")
	}
	return doc, nil
}

// ParseFrontmatter splits a source file into its frontmatter record and body.
// YAML blocks go through rewrite.Extract so corrupted closing delimiters are
// recovered; TOML (+++) and JSON (;;;) blocks are also accepted.
func ParseFrontmatter(b []byte) (meta.Record, string, error) {
	text := string(b)
	if strings.HasPrefix(text, "+++") || strings.HasPrefix(text, ";;;") {
		var raw map[string]any
		rest, err := frontmatter.Parse(bytes.NewReader(b), &raw, tomlFormat, jsonFormat)
		if err != nil {
			return nil, text, fmt.Errorf("cannot parse frontmatter: %w", err)
		}
		if len(raw) == 0 {
			return nil, string(rest), nil
		}
		return meta.Plain(raw).(meta.Record), string(rest), nil
	}

	fm := rewrite.Extract(text)
	if fm.Err != nil {
		return nil, fm.Body, fm.Err
	}
	return fm.Meta, fm.Body, nil
}

// Root returns the source directory.
func (t *Tree) Root() string { return t.root }

// IDs returns every document id in sorted order.
func (t *Tree) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Doc returns the document with the given id.
func (t *Tree) Doc(id string) (*Doc, bool) {
	d, ok := t.docs[id]
	return d, ok
}

// Known reports whether id names a loaded document.
func (t *Tree) Known(id string) bool {
	_, ok := t.docs[id]
	return ok
}

// Title returns the document title, or "".
func (t *Tree) Title(id string) string {
	if d, ok := t.docs[id]; ok {
		return d.Title
	}
	return ""
}

// SourcePath returns the source file of id, or "".
func (t *Tree) SourcePath(id string) string {
	if d, ok := t.docs[id]; ok {
		return d.Path
	}
	return ""
}

// URL resolves the published page URL of id.
func (t *Tree) URL(id string) string {
	page := id + ".html"
	if t.baseURL == "" {
		return page
	}
	return t.baseURL + "/" + page
}

// DocType classifies a document from its id.
func (t *Tree) DocType(id string) string {
	segs := strings.Split(strings.ToLower(id), "/")
	last := segs[len(segs)-1]
	for _, s := range segs {
		switch {
		case s == "apidocs" || s == "api" || strings.HasPrefix(s, "api-"):
			return "api"
		case strings.Contains(s, "tutorial"):
			return "tutorial"
		case strings.Contains(s, "troubleshoot"):
			return "troubleshooting"
		case s == "reference" || strings.HasSuffix(s, "-reference"):
			return "reference"
		}
	}
	switch {
	case last == RootID:
		return "overview"
	case strings.Contains(last, "get-started") || strings.Contains(last, "quickstart") || strings.Contains(last, "install"):
		return "guide"
	}
	return "documentation"
}

// SectionPath returns the titles of the sections enclosing id, outermost
// first. A directory with a known index document contributes that
// document's title; other directories contribute their name.
func (t *Tree) SectionPath(id string) []string {
	dir := path.Dir(id)
	if path.Base(id) == RootID {
		dir = path.Dir(dir)
	}
	if dir == "." || dir == "/" {
		return nil
	}
	var out []string
	parts := strings.Split(dir, "/")
	for i := range parts {
		prefix := strings.Join(parts[:i+1], "/")
		if title := t.Title(prefix + "/" + RootID); title != "" {
			out = append(out, title)
			continue
		}
		out = append(out, parts[i])
	}
	return out
}
