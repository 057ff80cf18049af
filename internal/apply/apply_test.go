package apply

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"tanko/internal/config"
	"tanko/internal/cover"
	"tanko/internal/plan"
	"tanko/internal/render"
	"tanko/internal/scan"
	"tanko/internal/services"
	"tanko/internal/testsupport"
)

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(render.Options{TextScale: 0.90, MarginFraction: 0.06, JPEGQuality: 95})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return r
}

func buildPlan(t *testing.T, seriesDir string, source cover.Source, batchSize int) *plan.Plan {
	t.Helper()
	cfg := config.Default()
	snapshot, err := scan.Scan(seriesDir, &cfg)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	p, err := plan.Build(snapshot, source, batchSize)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func seedSeries(t *testing.T, volumes int) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Series")
	for i := 1; i <= volumes; i++ {
		testsupport.WriteVolume(t, dir, fmt.Sprintf("Series v%d.cbz", i), "p001.jpg")
	}
	return dir
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return count
}

func TestExecuteMovesAndWritesCovers(t *testing.T) {
	seriesDir := seedSeries(t, 5)
	parent := filepath.Dir(seriesDir)
	source := cover.Source{Kind: cover.KindArchive, Origin: "Series v1.cbz:p001.jpg", Data: testsupport.JPEG(t, 60, 90)}
	p := buildPlan(t, seriesDir, source, 3)

	executor := New(newRenderer(t), nil, false)
	summary, err := executor.Execute(context.Background(), p)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if summary.BatchDirs != 2 || summary.MovedVolumes != 5 || summary.CoversWritten != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	for _, name := range []string{"Series 1", "Series 2"} {
		batchDir := filepath.Join(parent, name)
		if _, err := os.Stat(filepath.Join(batchDir, "cover.jpg")); err != nil {
			t.Fatalf("missing cover.jpg in %s: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(batchDir, "cover_old.jpg")); err != nil {
			t.Fatalf("missing cover_old.jpg in %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(parent, "Series 1", "Series v001.cbz")); err != nil {
		t.Fatalf("volume not moved: %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, "Series 2", "Series v004.cbz")); err != nil {
		t.Fatalf("second batch volume not moved: %v", err)
	}

	// Every original volume still exists somewhere: moved, never deleted.
	remaining := 0
	entries, err := os.ReadDir(seriesDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".cbz" {
			remaining++
		}
	}
	if remaining != 0 {
		t.Fatalf("%d volumes left behind in series dir", remaining)
	}
	if !summary.SeriesCover {
		t.Fatal("series cover was not materialized")
	}
	if _, err := os.Stat(filepath.Join(seriesDir, "cover.jpg")); err != nil {
		t.Fatalf("series cover.jpg missing: %v", err)
	}
	// 5 volumes + 2 covers + 2 cover_old files + the series cover.
	if got := countFiles(t, parent); got != 10 {
		t.Fatalf("file count = %d, want 10", got)
	}
}

func TestExecuteDryRunTouchesNothing(t *testing.T) {
	seriesDir := seedSeries(t, 3)
	parent := filepath.Dir(seriesDir)
	source := cover.Source{Kind: cover.KindArchive, Origin: "x", Data: testsupport.JPEG(t, 40, 60)}
	p := buildPlan(t, seriesDir, source, 20)

	before := countFiles(t, parent)
	executor := New(nil, nil, true)
	summary, err := executor.Execute(context.Background(), p)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !summary.DryRun || summary.MovedVolumes != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if got := countFiles(t, parent); got != before {
		t.Fatalf("dry run changed file count: %d -> %d", before, got)
	}
	if _, err := os.Stat(filepath.Join(parent, "Series 1")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("dry run created a batch dir")
	}
}

func TestExecuteForeignDestinationAborts(t *testing.T) {
	seriesDir := seedSeries(t, 2)
	parent := filepath.Dir(seriesDir)
	source := cover.Source{Kind: cover.KindArchive, Origin: "x", Data: testsupport.JPEG(t, 40, 60)}
	p := buildPlan(t, seriesDir, source, 20)

	// Pre-existing file at a planned destination.
	batchDir := filepath.Join(parent, "Series 1")
	if err := os.MkdirAll(batchDir, 0o755); err != nil {
		t.Fatal(err)
	}
	foreign := filepath.Join(batchDir, "Series v002.cbz")
	if err := os.WriteFile(foreign, []byte("foreign"), 0o644); err != nil {
		t.Fatal(err)
	}

	executor := New(newRenderer(t), nil, false)
	_, err := executor.Execute(context.Background(), p)
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// The conflict check runs before any move, so the sources are intact.
	if _, err := os.Stat(filepath.Join(seriesDir, "Series v1.cbz")); err != nil {
		t.Fatalf("source was touched despite conflict: %v", err)
	}
	data, err := os.ReadFile(foreign)
	if err != nil || string(data) != "foreign" {
		t.Fatalf("foreign file was modified: %q, %v", data, err)
	}
}

func TestExecuteArchivesExistingCover(t *testing.T) {
	seriesDir := seedSeries(t, 1)
	parent := filepath.Dir(seriesDir)
	source := cover.Source{Kind: cover.KindArchive, Origin: "x", Data: testsupport.JPEG(t, 40, 60)}
	p := buildPlan(t, seriesDir, source, 20)

	batchDir := filepath.Join(parent, "Series 1")
	if err := os.MkdirAll(batchDir, 0o755); err != nil {
		t.Fatal(err)
	}
	previous := testsupport.JPEG(t, 30, 45)
	if err := os.WriteFile(filepath.Join(batchDir, "cover.jpg"), previous, 0o644); err != nil {
		t.Fatal(err)
	}

	executor := New(newRenderer(t), nil, false)
	summary, err := executor.Execute(context.Background(), p)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if summary.ArchivedOld != 1 {
		t.Fatalf("summary = %+v, want one archived cover", summary)
	}

	// The old cover moved to cover_old.jpg and became the render base.
	archived, err := os.ReadFile(filepath.Join(batchDir, "cover_old.jpg"))
	if err != nil {
		t.Fatalf("cover_old.jpg missing: %v", err)
	}
	if string(archived) != string(previous) {
		t.Fatal("archived cover does not match the previous cover.jpg")
	}
	rendered, err := os.ReadFile(filepath.Join(batchDir, "cover.jpg"))
	if err != nil {
		t.Fatalf("cover.jpg missing: %v", err)
	}
	if string(rendered) == string(previous) {
		t.Fatal("cover.jpg was not rewritten")
	}
}

func TestExecuteRerunUsesNumberedArchiveSlots(t *testing.T) {
	seriesDir := filepath.Join(t.TempDir(), "Series")
	if err := os.MkdirAll(seriesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	batchDir := filepath.Join(filepath.Dir(seriesDir), "Series 1")
	if err := os.MkdirAll(batchDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(batchDir, "cover.jpg"), testsupport.JPEG(t, 30, 45), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(batchDir, "cover_old.jpg"), testsupport.JPEG(t, 30, 45), 0o644); err != nil {
		t.Fatal(err)
	}

	// With cover_old.jpg taken, the next free slot is cover_old_2.jpg.
	if got := nextCoverOldPath(batchDir); got != filepath.Join(batchDir, "cover_old_2.jpg") {
		t.Fatalf("nextCoverOldPath = %q", got)
	}
	if err := os.WriteFile(filepath.Join(batchDir, "cover_old_2.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := nextCoverOldPath(batchDir); got != filepath.Join(batchDir, "cover_old_3.jpg") {
		t.Fatalf("nextCoverOldPath = %q", got)
	}
}

func TestExecuteReencodesPNGSource(t *testing.T) {
	seriesDir := seedSeries(t, 1)
	parent := filepath.Dir(seriesDir)
	source := cover.Source{Kind: cover.KindRemote, Origin: "https://img.example/p.png", Provider: "kitsu", Data: testsupport.PNG(t, 40, 60)}
	p := buildPlan(t, seriesDir, source, 20)

	executor := New(newRenderer(t), nil, false)
	if _, err := executor.Execute(context.Background(), p); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Every cover artifact is a real JPEG even when the source was PNG.
	for _, path := range []string{
		filepath.Join(parent, "Series 1", "cover_old.jpg"),
		filepath.Join(parent, "Series 1", "cover.jpg"),
		filepath.Join(seriesDir, "cover.jpg"),
	} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err != nil || format != "jpeg" {
			t.Fatalf("%s format = %q (err %v), want jpeg", path, format, err)
		}
	}
}

func TestExecuteSeriesCoverNotClobbered(t *testing.T) {
	seriesDir := seedSeries(t, 1)
	existing := testsupport.JPEG(t, 33, 44)
	if err := os.WriteFile(filepath.Join(seriesDir, "cover.jpg"), existing, 0o644); err != nil {
		t.Fatal(err)
	}
	source := cover.Source{Kind: cover.KindArchive, Origin: "x", Data: testsupport.JPEG(t, 40, 60)}
	p := buildPlan(t, seriesDir, source, 20)

	executor := New(newRenderer(t), nil, false)
	summary, err := executor.Execute(context.Background(), p)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if summary.SeriesCover {
		t.Fatal("existing series cover should not be rewritten")
	}
	data, err := os.ReadFile(filepath.Join(seriesDir, "cover.jpg"))
	if err != nil || string(data) != string(existing) {
		t.Fatalf("series cover.jpg was modified: %v", err)
	}
}

func TestExecuteNilPlanIsInputError(t *testing.T) {
	executor := New(nil, nil, false)
	if _, err := executor.Execute(context.Background(), nil); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}
