package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tanko/internal/config"
	"tanko/internal/services"
	"tanko/internal/testsupport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	return cfg
}

func TestScanSeparatesVolumesAndImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "One Piece")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteVolume(t, dir, "One Piece v10.cbz", "p001.jpg")
	testsupport.WriteVolume(t, dir, "One Piece v2.cbz", "p001.jpg")
	for _, name := range []string{"cover.jpg", ".DS_Store", "._junk", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	snapshot, err := Scan(dir, testConfig(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if snapshot.SeriesName != "One Piece" {
		t.Fatalf("SeriesName = %q", snapshot.SeriesName)
	}
	if len(snapshot.Volumes) != 2 {
		t.Fatalf("volumes = %d, want 2", len(snapshot.Volumes))
	}
	// Natural order: v2 before v10.
	if snapshot.Volumes[0].Name != "One Piece v2.cbz" {
		t.Fatalf("first volume = %q", snapshot.Volumes[0].Name)
	}
	if !snapshot.Volumes[0].Parsed || snapshot.Volumes[0].Canonical.Volume != 2 {
		t.Fatalf("volume parse = %+v", snapshot.Volumes[0])
	}
	if len(snapshot.Images) != 1 || snapshot.Images[0] != "cover.jpg" {
		t.Fatalf("images = %v", snapshot.Images)
	}
}

func TestScanKeepsUnparseableVolumes(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteVolume(t, dir, "oneshot special.cbz", "p001.jpg")

	snapshot, err := Scan(dir, testConfig(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(snapshot.Volumes) != 1 {
		t.Fatalf("volumes = %d, want 1", len(snapshot.Volumes))
	}
	if snapshot.Volumes[0].Parsed {
		t.Fatal("expected unparsed volume")
	}
}

func TestScanMissingPathIsInputError(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "absent"), testConfig(t))
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestScanFileIsInputError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.cbz")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Scan(path, testConfig(t))
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestDisplayTitle(t *testing.T) {
	cases := []struct {
		folder, want string
	}{
		{"One Piece", "One Piece"},
		{"one_piece", "One Piece"},
		{"BLAME!", "BLAME!"},
		{"vinland.saga", "Vinland Saga"},
	}
	for _, tc := range cases {
		s := &Snapshot{SeriesName: tc.folder}
		if got := s.DisplayTitle(); got != tc.want {
			t.Errorf("DisplayTitle(%q) = %q, want %q", tc.folder, got, tc.want)
		}
	}
}
