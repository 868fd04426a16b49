package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sarahyurick/Curator/internal/doctree"
	"github.com/sarahyurick/Curator/internal/fsutil"
	"github.com/sarahyurick/Curator/internal/projector"
)

// File names searched for in a project directory, in order.
const (
	YAMLFile = "docmeta.yaml"
	TOMLFile = "docmeta.toml"
)

// ErrNotFound is returned by Load when the directory has no config file.
var ErrNotFound = errors.New("no docmeta config file found")

// HTMLContext mirrors the html_context block of the docs build.
type HTMLContext struct {
	ProductName   string   `yaml:"product_name,omitempty" toml:"product_name,omitempty"`
	ProductFamily []string `yaml:"product_family,omitempty" toml:"product_family,omitempty"`
	SiteName      string   `yaml:"site_name,omitempty" toml:"site_name,omitempty"`
}

// Substitutions mirrors the text substitutions of the docs build.
type Substitutions struct {
	ProductName      string `yaml:"product_name,omitempty" toml:"product_name,omitempty"`
	ProductNameShort string `yaml:"product_name_short,omitempty" toml:"product_name_short,omitempty"`
}

// Config is the in-memory representation of docmeta.yaml / docmeta.toml.
type Config struct {
	Project       string             `yaml:"project" toml:"project"`
	Release       string             `yaml:"release,omitempty" toml:"release,omitempty"`
	SiteName      string             `yaml:"site_name,omitempty" toml:"site_name,omitempty"`
	BaseURL       string             `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	SourceDir     string             `yaml:"source_dir" toml:"source_dir"`
	OutDir        string             `yaml:"out_dir" toml:"out_dir"`
	Exclude       []string           `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	Jobs          int                `yaml:"jobs,omitempty" toml:"jobs,omitempty"`
	HTMLContext   HTMLContext        `yaml:"html_context,omitempty" toml:"html_context,omitempty"`
	Substitutions Substitutions      `yaml:"substitutions,omitempty" toml:"substitutions,omitempty"`
	JSONOutput    projector.Settings `yaml:"json_output" toml:"json_output"`

	// Path is the file the config was loaded from, "" for defaults.
	Path string `yaml:"-" toml:"-"`
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the config used when a project has no config file,
// and the one written by docmeta init.
func DefaultConfig() *Config {
	return &Config{
		SourceDir:  ".",
		OutDir:     filepath.Join("_build", "json"),
		Exclude:    append([]string(nil), doctree.DefaultExclude...),
		JSONOutput: projector.DefaultSettings(),
	}
}

// Find returns the config file in dir.
func Find(dir string) (string, error) {
	for _, name := range []string{YAMLFile, TOMLFile} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
}

// Load reads the config file of the project in dir and applies the
// environment overrides.
func Load(dir string) (*Config, error) {
	p, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return LoadFile(p)
}

// LoadFile reads the config at path. The format follows the extension;
// keys missing from the file keep their defaults. Relative directories are
// resolved against the file's directory.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("invalid TOML in %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	}
	cfg.Path = path

	dir := filepath.Dir(path)
	if err := cfg.ApplyEnv(dir); err != nil {
		return nil, err
	}
	if err := cfg.resolveDirs(dir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides config values from the environment, falling back to
// <dir>/.env.
func (c *Config) ApplyEnv(dir string) error {
	if v, err := GetConfigValue(dir, EnvBaseURL); err != nil {
		return err
	} else if v != "" {
		c.BaseURL = v
	}
	if v, err := GetConfigValue(dir, EnvOutDir); err != nil {
		return err
	} else if v != "" {
		c.OutDir = v
	}
	if v, err := GetConfigValue(dir, EnvMinifyJSON); err != nil {
		return err
	} else if v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvMinifyJSON, v, err)
		}
		c.JSONOutput.MinifyJSON = b
	}
	return nil
}

func (c *Config) resolveDirs(base string) error {
	for _, p := range []*string{&c.SourceDir, &c.OutDir} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return err
		}
		if expanded != "" && !filepath.IsAbs(expanded) {
			expanded = filepath.Join(base, expanded)
		}
		*p = expanded
	}
	return nil
}

// Save marshals cfg and writes it to path, as TOML for a .toml path and YAML
// otherwise.
func Save(cfg *Config, path string) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("cannot marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("cannot marshal config: %w", err)
		}
		data = b
	}
	if err := fsutil.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// DocsTitle is the site name used in page titles.
func (c *Config) DocsTitle() string {
	switch {
	case c.SiteName != "":
		return c.SiteName
	case c.HTMLContext.SiteName != "":
		return c.HTMLContext.SiteName
	}
	return c.Project
}

// SiteMeta computes the site-wide metadata merged into every JSON record.
//
// The product name comes from html_context, then the substitutions (short
// name first), then the project name: "NeMo-Curator" gives "Curator" and
// "NVIDIA NeMo Curator" gives "Curator".
func SiteMeta(c *Config) projector.SiteMeta {
	var site projector.SiteMeta
	if c.Project != "" {
		site.Book = &projector.Book{Title: c.Project, Version: c.Release}
	}

	name := c.HTMLContext.ProductName
	family := c.HTMLContext.ProductFamily
	if name == "" {
		name = c.Substitutions.ProductNameShort
		if name == "" {
			name = c.Substitutions.ProductName
		}
	}
	if len(family) == 0 && strings.Contains(c.Substitutions.ProductName, "NeMo") {
		family = []string{"NeMo"}
	}
	if name == "" {
		name = productFromProject(c.Project)
	}
	if name != "" {
		site.Product = &projector.Product{Name: name, Family: family}
	}

	if c.HTMLContext.SiteName != "" {
		site.Site = &projector.SiteInfo{Name: c.HTMLContext.SiteName}
	}
	return site
}

func productFromProject(project string) string {
	switch {
	case strings.Contains(project, "-"):
		parts := strings.Split(project, "-")
		return parts[len(parts)-1]
	case strings.Contains(project, " "):
		parts := strings.Fields(strings.ReplaceAll(project, "NVIDIA", ""))
		if len(parts) == 0 {
			return project
		}
		return parts[len(parts)-1]
	}
	return project
}
