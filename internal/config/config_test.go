package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clauseflow/clauseflow/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "5m"
shutdown_timeout = "30s"

[database]
name = "clauseflow"
user = "clauseflow"
password = "clauseflow"

[storage]
container_name = "documents"
connection_string = "DefaultEndpointsProtocol=http;AccountName=devstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/devstore;"

[extractor]
base_url = "http://localhost:11434/v1"
model = "llama3.2"

[api]
base_path = "/api"
max_upload_size = "50MB"

[review]
scope_types = ["po_wide", "line_specific"]
min_gap_lines = 10
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadBase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "clauseflow" {
		t.Errorf("Database.Name = %q, want clauseflow", cfg.Database.Name)
	}
	if cfg.API.MaxUploadSizeBytes() != 50*1024*1024 {
		t.Errorf("MaxUploadSizeBytes() = %d, want 50MB", cfg.API.MaxUploadSizeBytes())
	}
	if got := cfg.Review.MinGapLines; got != 10 {
		t.Errorf("Review.MinGapLines = %d, want 10", got)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.test.toml", overlayConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvClauseflowEnv, "test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want overlay value 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("Database.Host = %q, want overlay value prodhost", cfg.Database.Host)
	}
	// Fields absent from the overlay keep base values.
	if cfg.Database.Name != "clauseflow" {
		t.Errorf("Database.Name = %q, want base value clauseflow", cfg.Database.Name)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvServerPort, "7070")
	t.Setenv("CLAUSEFLOW_REVIEW_MIN_GAP_LINES", "25")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want env value 7070", cfg.Server.Port)
	}
	if cfg.Review.MinGapLines != 25 {
		t.Errorf("Review.MinGapLines = %d, want env value 25", cfg.Review.MinGapLines)
	}
}

func TestReviewDefaults(t *testing.T) {
	var rc config.ReviewConfig
	if err := rc.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	want := []string{"po_wide", "line_specific"}
	if len(rc.ScopeTypes) != len(want) {
		t.Fatalf("ScopeTypes = %v, want %v", rc.ScopeTypes, want)
	}
	for i, s := range want {
		if rc.ScopeTypes[i] != s {
			t.Errorf("ScopeTypes[%d] = %q, want %q", i, rc.ScopeTypes[i], s)
		}
	}
}

func TestReviewRejectsReservedScope(t *testing.T) {
	rc := config.ReviewConfig{ScopeTypes: []string{"po_wide", "unset"}}
	if err := rc.Finalize(); err == nil {
		t.Error("Finalize() accepted reserved scope value unset")
	}
}
