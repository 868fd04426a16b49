package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDotEnv_NotExist(t *testing.T) {
	m, err := LoadDotEnv(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("# comment\nA=1\n\n  B =two\nbroken\n=x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadDotEnv(dir)
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if m["A"] != "1" || m["B"] != "two" || len(m) != 2 {
		t.Fatalf("unexpected map: %v", m)
	}
}

func TestLoadDotEnv_QuotesAndExport(t *testing.T) {
	dir := t.TempDir()
	body := "export DOCMETA_BASE_URL=\"https://docs.example.com/\"\nDOCMETA_OUT_DIR='out dir'\nODD=\"x'\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadDotEnv(dir)
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	want := map[string]string{
		EnvBaseURL: "https://docs.example.com/",
		EnvOutDir:  "out dir",
		"ODD":      `"x'`,
	}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("%s = %q, want %q", k, m[k], v)
		}
	}
}

func TestGetConfigValue_EnvOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("K=fromdotenv\nJ=only\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// env override
	t.Setenv("K", "fromenv")

	v, err := GetConfigValue(dir, "K")
	if err != nil {
		t.Fatalf("GetConfigValue: %v", err)
	}
	if v != "fromenv" {
		t.Fatalf("expected env override, got %q", v)
	}
	if v, _ := GetConfigValue(dir, "J"); v != "only" {
		t.Fatalf("expected dotenv fallback, got %q", v)
	}
}

func TestEnsureDotEnvTemplate_DoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte("DOCMETA_OUT_DIR=keep\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	created, err := EnsureDotEnvTemplate(dir)
	if err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	if created {
		t.Fatal("expected existing file to be kept")
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "DOCMETA_OUT_DIR=keep\n" {
		t.Fatalf("template overwrote existing file: %q", string(b))
	}
}

func TestEnsureDotEnvTemplate_CreatesWhenMissing(t *testing.T) {
	dir := t.TempDir()
	created, err := EnsureDotEnvTemplate(dir)
	if err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	if !created {
		t.Fatal("expected template to be created")
	}
	b, err := os.ReadFile(filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{EnvBaseURL, EnvOutDir, EnvMinifyJSON} {
		if !strings.Contains(string(b), k+"=\n") {
			t.Fatalf("template missing %s: %q", k, string(b))
		}
	}
}
