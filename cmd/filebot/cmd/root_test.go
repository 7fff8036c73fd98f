package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/filebot/internal/models"
)

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"matrix"}, "matrix"},
		{"multiple words", []string{"the", "matrix"}, "the matrix"},
		{"single quoted phrase", []string{"the matrix"}, "the matrix"},
		{"type filter", []string{"matrix", "|", "video"}, "matrix | video"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := parseFormat("text"); err != nil {
		t.Errorf("text: %v", err)
	}
	if _, err := parseFormat("json"); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := parseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
storage:
  database_path: "./files.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestAcquireLock_secondOpenerFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "filebot.lock")
	first, err := acquireLock(path)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Unlock()

	if _, err := acquireLock(path); !errors.Is(err, errLocked) {
		t.Errorf("second acquireLock error = %v, want errLocked", err)
	}
}

// writeTestConfig writes a config whose data lives under a temp dir.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/files.db"
  bleve_index_path: "./data/bleve"
  lock_path: "./data/filebot.lock"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommands_directAccess(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := run(t, "index", "--config", configPath, "--server", "",
		"--file-id", "BQAD1", "--unique-id", "AgAD1", "--name", "The.Matrix.1999.mkv",
		"--size", "1536", "--type", "video", "-o", "json")
	if err != nil {
		t.Fatalf("index: %v\n%s", err, out)
	}
	var rec models.FileRecord
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("index output is not JSON: %v\n%s", err, out)
	}

	out, err = run(t, "search", "--config", configPath, "--server", "", "matrix", "|", "video")
	if err != nil {
		t.Fatalf("search: %v\n%s", err, out)
	}
	if !strings.Contains(out, "The.Matrix.1999.mkv") || !strings.Contains(out, "1.50 KB") {
		t.Errorf("search output:\n%s", out)
	}

	out, err = run(t, "status", "--config", configPath, "--server", "", "-o", "json")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	var st models.IndexStatus
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatal(err)
	}
	if st.Files != 1 || st.ByType["video"] != 1 {
		t.Errorf("status = %+v", st)
	}

	out, err = run(t, "reindex", "--config", configPath)
	if err != nil || !strings.Contains(out, "Reindexed 1 files") {
		t.Errorf("reindex: %v\n%s", err, out)
	}

	if out, err = run(t, "delete", "--config", configPath, "--server", "", rec.ID); err != nil {
		t.Fatalf("delete: %v\n%s", err, out)
	}
	if _, err = run(t, "delete", "--config", configPath, "--server", "", rec.ID); err == nil {
		t.Error("deleting a missing file should fail")
	}
}

func TestSearch_viaServer(t *testing.T) {
	var gotBody models.SearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/search" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(models.SearchPage{
			Query:      "matrix",
			NextOffset: "10",
			Files:      []*models.FileRecord{{ID: "tg:1", FileName: "The.Matrix.mkv", FileSize: 2048}},
		})
	}))
	defer srv.Close()

	out, err := run(t, "search", "--server", srv.URL, "--offset", "0", "matrix")
	if err != nil {
		t.Fatalf("search: %v\n%s", err, out)
	}
	if gotBody.Query != "matrix" || gotBody.Offset != "0" || gotBody.Limit != 10 {
		t.Errorf("request body = %+v", gotBody)
	}
	for _, sub := range []string{"The.Matrix.mkv", "2.00 KB", "--offset 10"} {
		if !strings.Contains(out, sub) {
			t.Errorf("output missing %q:\n%s", sub, out)
		}
	}
}

func TestDelete_viaServerNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"file not found"}`))
	}))
	defer srv.Close()

	_, err := run(t, "delete", "--server", srv.URL, "tg:missing")
	if err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Errorf("err = %v, want file not found", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "filebot version "+Version) {
		t.Errorf("version output = %q", out)
	}
}
