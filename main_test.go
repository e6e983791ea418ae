package main

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MilthmLang/LanguageCollector/bundle"
	"github.com/MilthmLang/LanguageCollector/config"
	"github.com/MilthmLang/LanguageCollector/manifest"
	"github.com/MilthmLang/LanguageCollector/settings"
	"github.com/spf13/cobra"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{
			name:    "clamps below zero",
			percent: -10,
			width:   4,
			want:    colorRed + "░░░░" + colorReset + "   0%",
		},
		{
			name:    "mid range uses yellow",
			percent: 50,
			width:   4,
			want:    colorYellow + "██░░" + colorReset + "  50%",
		},
		{
			name:    "clamps above hundred",
			percent: 120,
			width:   4,
			want:    colorGreen + "████" + colorReset + " 100%",
		},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestLangHelpers(t *testing.T) {
	langs := []string{"en", "pt_BR", "zh_Hant"}
	if got := langColumnWidth(langs); got != len("zh_Hant") {
		t.Fatalf("langColumnWidth() = %d, want %d", got, len("zh_Hant"))
	}

	cell := langCell("pt_BR", 7)
	if !strings.Contains(cell, "🇧🇷") || !strings.Contains(cell, "pt_BR  ") {
		t.Fatalf("langCell() = %q, want flag and padded language code", cell)
	}
	if got := langCell("xx", 2); got != "   xx" {
		t.Fatalf("langCell(unknown) = %q, want blank flag", got)
	}
}

func TestCoverage(t *testing.T) {
	if got := coverage(5, 0); got != 0 {
		t.Fatalf("coverage(5, 0) = %d, want 0", got)
	}
	if got := coverage(1, 3); got != 33 {
		t.Fatalf("coverage(1, 3) = %d, want 33", got)
	}
}

func TestMissingComponents(t *testing.T) {
	got := missingComponents([]string{"main", "web", "story"}, []string{"story", "main", "glossary"})
	if want := []string{"web"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("missingComponents() = %#v, want %#v", got, want)
	}
}

func TestBundleLanguages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zh_Hans.json", "en.json", manifest.FileName, "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatalf("os.WriteFile() error: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "de.json"), 0755); err != nil {
		t.Fatalf("os.Mkdir() error: %v", err)
	}

	got, err := bundleLanguages(dir)
	if err != nil {
		t.Fatalf("bundleLanguages() error: %v", err)
	}
	if want := []string{"en", "zh_Hans"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("bundleLanguages() = %#v, want %#v", got, want)
	}
}

func TestWriteIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "id.txt")
	if err := writeIDFile(path, 42); err != nil {
		t.Fatalf("writeIDFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile() error: %v", err)
	}
	if string(data) != "42\n" {
		t.Fatalf("id file = %q, want %q", data, "42\n")
	}
}

// withRoot points the global --root and --config flags at a temp project
// and isolates the credential store.
func withRoot(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	if yaml != "" {
		if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(yaml), 0644); err != nil {
			t.Fatalf("os.WriteFile() error: %v", err)
		}
	}
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	oldRoot, oldConfig := rootDir, configPath
	rootDir, configPath = dir, ""
	t.Cleanup(func() { rootDir, configPath = oldRoot, oldConfig })
	return dir
}

func newFlagCmd() (*cobra.Command, *options) {
	var o options
	cmd := &cobra.Command{Use: "collect"}
	bindWeblateFlags(cmd, &o)
	bindOutputFlag(cmd, &o)
	bindCollectFlags(cmd, &o)
	return cmd, &o
}

func envMap(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestResolveConfigPrecedence(t *testing.T) {
	dir := withRoot(t, "project: from-file\nignored_keys: [a, b]\nconcurrency: 2\n")

	cmd, o := newFlagCmd()
	if err := cmd.Flags().Set("project", "from-flag"); err != nil {
		t.Fatalf("Flags().Set() error: %v", err)
	}
	if err := cmd.Flags().Set("ignored-keywords", "wip, TODO"); err != nil {
		t.Fatalf("Flags().Set() error: %v", err)
	}

	cfg, err := resolveConfig(cmd, o, envMap(map[string]string{
		config.EnvToken:       "env-token",
		config.EnvIgnoredKeys: "c",
	}))
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}

	if cfg.Project != "from-flag" {
		t.Fatalf("Project = %q, want flag value", cfg.Project)
	}
	if cfg.Token != "env-token" {
		t.Fatalf("Token = %q, want env value", cfg.Token)
	}
	if want := []string{"c"}; !reflect.DeepEqual(cfg.IgnoredKeys, want) {
		t.Fatalf("IgnoredKeys = %#v, want env value %#v", cfg.IgnoredKeys, want)
	}
	if want := []string{"wip", "TODO"}; !reflect.DeepEqual(cfg.IgnoredKeywords, want) {
		t.Fatalf("IgnoredKeywords = %#v, want %#v", cfg.IgnoredKeywords, want)
	}
	if cfg.Concurrency != 2 {
		t.Fatalf("Concurrency = %d, want file value 2", cfg.Concurrency)
	}
	if cfg.Endpoint != config.DefaultEndpoint {
		t.Fatalf("Endpoint = %q, want default", cfg.Endpoint)
	}
	if want := filepath.Join(dir, config.DefaultOutputDir); cfg.OutputDir != want {
		t.Fatalf("OutputDir = %q, want %q", cfg.OutputDir, want)
	}
}

func TestResolveConfigFallsBackToStoredToken(t *testing.T) {
	withRoot(t, "")
	if err := settings.SetToken(config.DefaultEndpoint, "stored-token"); err != nil {
		t.Fatalf("settings.SetToken() error: %v", err)
	}

	cmd, o := newFlagCmd()
	cfg, err := resolveConfig(cmd, o, envMap(nil))
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if cfg.Token != "stored-token" {
		t.Fatalf("Token = %q, want stored token", cfg.Token)
	}
}

func TestPromptToken(t *testing.T) {
	scan := func(in string) *bufio.Scanner { return bufio.NewScanner(strings.NewReader(in)) }

	if got, err := promptToken(scan("  wlu_new \n"), ""); err != nil || got != "wlu_new" {
		t.Fatalf("promptToken(new) = %q, %v", got, err)
	}
	if got, err := promptToken(scan("\n"), "wlu_old"); err != nil || got != "" {
		t.Fatalf("promptToken(keep) = %q, %v, want empty and nil", got, err)
	}
	if _, err := promptToken(scan("\n"), ""); !errors.Is(err, config.ErrMissingToken) {
		t.Fatalf("promptToken(empty) error = %v, want ErrMissingToken", err)
	}
	if _, err := promptToken(scan(""), ""); err == nil {
		t.Fatalf("promptToken(no input) error = nil, want error")
	}
}

func TestRunStatusWithoutManifest(t *testing.T) {
	if err := runStatus(t.TempDir()); err != nil {
		t.Fatalf("runStatus() error: %v", err)
	}
}

func writeCollected(t *testing.T, dir string, lastID int64) {
	t.Helper()
	m := manifest.New()
	m.Add("main", manifest.Record{
		LastID:         lastID,
		LastModifiedAt: manifest.Timestamp{Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	})
	if err := m.Write(dir); err != nil {
		t.Fatalf("manifest.Write() error: %v", err)
	}
	f := bundle.New("en", map[string]string{"title": "Milthm"})
	if err := f.WriteFile(bundle.Path(dir, "en")); err != nil {
		t.Fatalf("bundle.WriteFile() error: %v", err)
	}
}

func TestRunStatus(t *testing.T) {
	dir := t.TempDir()
	writeCollected(t, dir, 7)
	if err := runStatus(dir); err != nil {
		t.Fatalf("runStatus() error: %v", err)
	}
}

func TestRunPackage(t *testing.T) {
	base := t.TempDir()
	out := filepath.Join(base, "weblate")
	dest := filepath.Join(base, "dist")
	unity := filepath.Join(base, "unity")
	if err := os.MkdirAll(out, 0755); err != nil {
		t.Fatalf("os.MkdirAll() error: %v", err)
	}
	writeCollected(t, out, 7)

	if err := runPackage(out, dest, unity); err != nil {
		t.Fatalf("runPackage() error: %v", err)
	}

	zr, err := zip.OpenReader(filepath.Join(dest, "milthm-translations-7.zip"))
	if err != nil {
		t.Fatalf("zip.OpenReader() error: %v", err)
	}
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if want := []string{manifest.FileName, "en.json"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("zip entries = %#v, want %#v", names, want)
	}

	if _, err := os.Stat(filepath.Join(unity, "en.json.bytes")); err != nil {
		t.Fatalf("unity copy missing: %v", err)
	}
}

func TestRunLanguagesRequiresToken(t *testing.T) {
	err := runLanguages(config.Default())
	if !errors.Is(err, config.ErrMissingToken) {
		t.Fatalf("runLanguages() error = %v, want ErrMissingToken", err)
	}
}

func TestRunComponents(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/projects/milthm/components/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": 2,
			"next":  nil,
			"results": []map[string]any{
				{"name": "Main", "slug": "main"},
				{"name": "Glossary", "slug": "glossary", "is_glossary": true},
			},
		})
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Endpoint = srv.URL
	cfg.Token = "secret"
	if err := runComponents(cfg); err != nil {
		t.Fatalf("runComponents() error: %v", err)
	}
	if gotAuth != "Token secret" {
		t.Fatalf("Authorization = %q, want %q", gotAuth, "Token secret")
	}
}
