package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.Batching.BatchSize != 20 {
		t.Fatalf("unexpected default batch size %d", cfg.Batching.BatchSize)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[batching]
batch_size = 10
volume_extensions = ["CBZ", ".zip"]

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be detected")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Batching.BatchSize != 10 {
		t.Fatalf("batch_size = %d, want 10", cfg.Batching.BatchSize)
	}
	if !cfg.VolumeExtension(".cbz") || !cfg.VolumeExtension(".ZIP") {
		t.Fatal("extension normalization failed")
	}
	if cfg.VolumeExtension(".cbr") {
		t.Fatal("override should replace the default extension list")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging overrides not applied: %+v", cfg.Logging)
	}
	// Untouched sections keep their defaults.
	if cfg.Covers.TextScale != 0.90 {
		t.Fatalf("text_scale = %v, want default", cfg.Covers.TextScale)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		fragment string
	}{
		{"batch size", "[batching]\nbatch_size = 0\n", "batch_size"},
		{"log format", "[logging]\nformat = \"yaml\"\n", "logging.format"},
		{"text scale", "[covers]\ntext_scale = 1.5\n", "text_scale"},
		{"timeout", "[providers]\ntimeout_seconds = 0\n", "timeout_seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("error %q missing fragment %q", err, tc.fragment)
			}
		})
	}
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, _, exists, err := Load(missing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if cfg.Batching.BatchSize != 20 {
		t.Fatalf("defaults not applied: %+v", cfg.Batching)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config not detected")
	}
	if cfg.Batching.BatchSize != Default().Batching.BatchSize {
		t.Fatal("sample config diverges from defaults")
	}
}
