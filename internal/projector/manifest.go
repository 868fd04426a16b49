package projector

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sarahyurick/Curator/internal/fsutil"
)

// ManifestFile is the build manifest written at the output root.
const ManifestFile = "_manifest.json"

// ManifestVersion is bumped when the record layout changes, which forces a
// full rebuild.
const ManifestVersion = 1

// Manifest describes one build of the output tree.
type Manifest struct {
	ManifestVersion int    `json:"manifest_version"`
	BuildID         string `json:"build_id"`
	CreatedAt       string `json:"created_at"`
	// SettingsHash covers the options, site metadata and tree layout; a
	// change invalidates every entry.
	SettingsHash string  `json:"settings_hash"`
	Documents    int     `json:"documents"`
	Written      int     `json:"written"`
	Reused       int     `json:"reused"`
	Failed       int     `json:"failed"`
	Entries      []Entry `json:"entries"`
}

// Entry records one document of a build.
type Entry struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	SourceHash string `json:"source_hash"`
	Output     string `json:"output"`
	Head       string `json:"head,omitempty"`
	UpdatedAt  string `json:"updated_at"`
}

// NewBuildID returns a sortable unique build id.
func NewBuildID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

// LoadManifest reads the manifest from dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest JSON %s: %w", path, err)
	}
	return &m, nil
}

// WriteManifest writes m to dir, filling CreatedAt and BuildID when unset.
func WriteManifest(dir string, m Manifest) error {
	if m.CreatedAt == "" {
		m.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if m.BuildID == "" {
		m.BuildID = NewBuildID()
	}
	if m.ManifestVersion == 0 {
		m.ManifestVersion = ManifestVersion
	}
	mb, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := fsutil.WriteFile(filepath.Join(dir, ManifestFile), mb, 0o644); err != nil {
		return fmt.Errorf("cannot write manifest: %w", err)
	}
	return nil
}

// entryMap indexes the entries of a previous manifest by id.
func (m *Manifest) entryMap() map[string]Entry {
	out := make(map[string]Entry, len(m.Entries))
	for _, e := range m.Entries {
		out[e.ID] = e
	}
	return out
}

// TextHash returns the hex sha256 of text.
func TextHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// SettingsHash hashes everything besides a document's own source that shapes
// its record: the options, the site metadata and the tree layout.
func SettingsHash(s Settings, site SiteMeta, head bool, tree string) string {
	b, _ := json.Marshal(struct {
		Settings Settings
		Site     SiteMeta
		Head     bool
		Tree     string
		Version  int
	}{s, site, head, tree, ManifestVersion})
	return TextHash(string(b))
}
