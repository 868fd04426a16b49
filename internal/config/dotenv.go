package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment keys that override config values.
const (
	EnvBaseURL    = "DOCMETA_BASE_URL"
	EnvOutDir     = "DOCMETA_OUT_DIR"
	EnvMinifyJSON = "DOCMETA_MINIFY_JSON"
)

// DotEnvPath returns the path of the project dotenv file (<dir>/.env).
func DotEnvPath(dir string) string {
	return filepath.Join(dir, ".env")
}

// LoadDotEnv reads <dir>/.env and returns its key/value pairs. A missing
// file yields an empty map. Blank lines and '#' comments are ignored, an
// "export " prefix is accepted and one pair of matching quotes around a
// value is removed.
func LoadDotEnv(dir string) (map[string]string, error) {
	p := DotEnvPath(dir)

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("cannot open dotenv file %s: %w", p, err)
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, "=")
		if i <= 0 {
			continue
		}
		k := strings.TrimSpace(strings.TrimPrefix(line[:i], "export "))
		if k == "" {
			continue
		}
		out[k] = unquote(strings.TrimSpace(line[i+1:]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read dotenv file %s: %w", p, err)
	}
	return out, nil
}

// GetConfigValue returns the effective value for key, using process environment variables
// first and falling back to <dir>/.env.
func GetConfigValue(dir, key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	dotenv, err := LoadDotEnv(dir)
	if err != nil {
		return "", err
	}
	return dotenv[key], nil
}

// EnsureDotEnvTemplate writes a commented <dir>/.env listing the override
// keys with empty values. An existing file is left alone and false returned.
func EnsureDotEnvTemplate(dir string) (bool, error) {
	p := DotEnvPath(dir)

	if _, err := os.Stat(p); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("cannot stat dotenv file %s: %w", p, err)
	}

	body := "# docmeta overrides; the process environment wins over this file.\n" +
		"# Published site root used for page URLs, e.g. https://docs.example.com/\n" +
		EnvBaseURL + "=\n" +
		"# JSON output directory\n" +
		EnvOutDir + "=\n" +
		"# true to write compact JSON\n" +
		EnvMinifyJSON + "=\n"

	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		return false, fmt.Errorf("cannot write dotenv template %s: %w", p, err)
	}
	return true, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}
