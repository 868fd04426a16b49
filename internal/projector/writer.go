package projector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sarahyurick/Curator/internal/fsutil"
)

// Writer lays records out under an output directory.
type Writer struct {
	OutDir          string
	Minify          bool
	SeparateContent bool
}

// contentFile is the payload of a <name>.content.json file.
type contentFile struct {
	ID            string `json:"id"`
	Content       string `json:"content"`
	Format        string `json:"format"`
	ContentLength int    `json:"content_length"`
	WordCount     int    `json:"word_count"`
}

// OutputPath maps a document id to its JSON file relative to the output
// directory: "index" -> index.json, "a/index" -> a/index.json, "a/b" -> a/b.json.
func OutputPath(docID string) string {
	return filepath.FromSlash(docID) + ".json"
}

// HeadPath maps a document id to its head fragment file.
func HeadPath(docID string) string {
	return filepath.FromSlash(docID) + ".head.html"
}

// WriteDocument writes one per-document record. In separate-content mode the
// primary text moves to <name>.content.json and the record points at it.
func (w *Writer) WriteDocument(doc Document) error {
	path := filepath.Join(w.OutDir, OutputPath(doc.ID))

	if text := doc.Text(); w.SeparateContent && text != "" {
		cpath := strings.TrimSuffix(path, ".json") + ".content.json"
		cf := contentFile{
			ID:            doc.ID,
			Content:       text,
			Format:        doc.Format,
			ContentLength: doc.ContentLength,
			WordCount:     doc.WordCount,
		}
		if cf.Format == "" {
			cf.Format = "text"
		}
		if err := w.writeJSON(cpath, cf); err != nil {
			return err
		}
		if doc.ContentText != "" {
			doc.ContentText = ""
		} else {
			doc.Content = nil
		}
		doc.ContentFile = filepath.Base(cpath)
	}
	return w.writeJSON(path, doc)
}

// WriteRoot writes the root index as a bare array of child records.
func (w *Writer) WriteRoot(children []Document) error {
	if children == nil {
		children = []Document{}
	}
	return w.writeJSON(filepath.Join(w.OutDir, OutputPath(RootID)), children)
}

// WriteHead writes the head fragment of one document.
func (w *Writer) WriteHead(docID, fragment string) error {
	path := filepath.Join(w.OutDir, HeadPath(docID))
	if err := fsutil.WriteFile(path, []byte(fragment+"\n"), 0o644); err != nil {
		return fmt.Errorf("cannot write head fragment for %s: %w", docID, err)
	}
	return nil
}

// Marshal encodes v the way the writer stores it: UTF-8 without HTML
// escaping, two-space indented unless minified.
func (w *Writer) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !w.Minify {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (w *Writer) writeJSON(path string, v any) error {
	b, err := w.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot encode %s: %w", path, err)
	}
	if err := fsutil.WriteFile(path, b, 0o644); err != nil {
		return err
	}
	return nil
}
