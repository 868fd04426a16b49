package projector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sarahyurick/Curator/internal/doctree"
	"github.com/sarahyurick/Curator/internal/extract"
	"github.com/sarahyurick/Curator/internal/meta"
)

// HeadFunc renders the head fragment of one document. ok is false when the
// document has nothing to contribute.
type HeadFunc func(doc *doctree.Doc, canonical meta.Record) (fragment string, ok bool)

// BuildOptions controls Build.
type BuildOptions struct {
	Tree     *doctree.Tree
	OutDir   string
	Settings Settings
	Site     SiteMeta
	// Force rewrites every document even when its source is unchanged.
	Force bool
	// Jobs bounds the number of documents processed at once; <= 0 uses
	// one per CPU.
	Jobs int
	// Head, when set, also writes <doc>.head.html fragments.
	Head   HeadFunc
	Logger *slog.Logger
}

type outcome struct {
	entry   Entry
	written bool
	reused  bool
	failed  bool
}

// Build projects every document of the tree into OutDir and writes the
// manifest.
//
// The build is incremental when a manifest from a build with the same
// settings is present (unless Force is true): documents whose source hash is
// unchanged and whose outputs still exist are not rewritten. The root index
// is always rewritten. A document that fails to write is logged and counted;
// the build continues.
func Build(ctx context.Context, opts BuildOptions) (*Manifest, error) {
	if opts.Tree == nil {
		return nil, fmt.Errorf("document tree is required")
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("out dir is required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	ids := opts.Tree.IDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("no documents found under %s", opts.Tree.Root())
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create out dir: %w", err)
	}

	sources := make([]Source, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, _ := opts.Tree.Doc(id)
			sources[i] = SourceOf(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Parents, titles and section paths read other documents, so the set of
	// ids and titles is part of what an unchanged output depends on.
	var shape strings.Builder
	for _, id := range ids {
		shape.WriteString(id + "\t" + opts.Tree.Title(id) + "\n")
	}
	settingsHash := SettingsHash(opts.Settings, opts.Site, opts.Head != nil, shape.String())
	var previous map[string]Entry
	reusable := false
	if old, err := LoadManifest(opts.OutDir); err == nil {
		previous = old.entryMap()
		reusable = !opts.Force && old.SettingsHash == settingsHash
		if !reusable {
			log.Debug("previous build not reusable", "force", opts.Force)
		}
	}

	proj := New(opts.Tree, opts.Settings, opts.Site)
	w := &Writer{
		OutDir:          opts.OutDir,
		Minify:          opts.Settings.MinifyJSON,
		SeparateContent: opts.Settings.SeparateContent,
	}

	outcomes := make([]outcome, len(ids))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, _ := opts.Tree.Doc(src.ID)
			var prev *Entry
			if reusable {
				if e, ok := previous[src.ID]; ok {
					prev = &e
				}
			}
			outcomes[i] = buildOne(proj, w, doc, src, prev, opts.Head, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := Manifest{
		ManifestVersion: ManifestVersion,
		BuildID:         NewBuildID(),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		SettingsHash:    settingsHash,
		Documents:       len(ids),
	}

	if err := w.WriteRoot(proj.ProjectRoot(sources)); err != nil {
		log.Error("cannot write root index", "err", err)
		m.Failed++
	}

	current := make(map[string]bool, len(ids))
	for _, o := range outcomes {
		switch {
		case o.failed:
			m.Failed++
			continue
		case o.reused:
			m.Reused++
		case o.written:
			m.Written++
		}
		current[o.entry.ID] = true
		m.Entries = append(m.Entries, o.entry)
	}
	for id, e := range previous {
		if !current[id] && !opts.Tree.Known(id) {
			pruneOutputs(opts.OutDir, e, log)
		}
	}

	if err := WriteManifest(opts.OutDir, m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SourceOf prepares a loaded document for projection.
func SourceOf(doc *doctree.Doc) Source {
	src := Source{
		ID:        doc.ID,
		Canonical: meta.Normalize(doc.Raw),
		Content:   extract.Markdown(doc.Body),
	}
	if a := doc.Raw["author"]; meta.Truthy(a) {
		src.Author = meta.Plain(a)
	}
	if !doc.ModTime.IsZero() {
		src.LastModified = doc.ModTime.UTC().Format(time.RFC3339)
	}
	return src
}

func buildOne(proj *Projector, w *Writer, doc *doctree.Doc, src Source, prev *Entry, head HeadFunc, log *slog.Logger) outcome {
	entry := Entry{
		ID:         src.ID,
		Source:     doc.Path,
		SourceHash: doc.Hash,
		Output:     filepath.ToSlash(OutputPath(src.ID)),
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	if prev != nil && prev.SourceHash == doc.Hash && outputsExist(w.OutDir, *prev) {
		log.Debug("unchanged, reusing output", "doc", src.ID)
		return outcome{entry: *prev, reused: true}
	}

	// The root record only exists inside the root index array.
	if src.ID != RootID {
		if err := w.WriteDocument(proj.Project(src, true)); err != nil {
			log.Warn("cannot write document", "doc", src.ID, "err", err)
			return outcome{entry: entry, failed: true}
		}
	}
	if head != nil {
		if fragment, ok := head(doc, src.Canonical); ok {
			if err := w.WriteHead(src.ID, fragment); err != nil {
				log.Warn("cannot write head fragment", "doc", src.ID, "err", err)
				return outcome{entry: entry, failed: true}
			}
			entry.Head = filepath.ToSlash(HeadPath(src.ID))
		}
	}
	log.Debug("wrote document", "doc", src.ID)
	return outcome{entry: entry, written: true}
}

func outputsExist(outDir string, e Entry) bool {
	for _, rel := range []string{e.Output, e.Head} {
		if rel == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel))); err != nil {
			return false
		}
	}
	return true
}

func pruneOutputs(outDir string, e Entry, log *slog.Logger) {
	if e.ID == RootID {
		return
	}
	rels := []string{e.Output, e.Head}
	if e.Output != "" {
		rels = append(rels, strings.TrimSuffix(e.Output, ".json")+".content.json")
	}
	for _, rel := range rels {
		if rel == "" {
			continue
		}
		err := os.Remove(filepath.Join(outDir, filepath.FromSlash(rel)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("cannot remove stale output", "path", rel, "err", err)
		}
	}
	log.Debug("removed outputs of deleted document", "doc", e.ID)
}
