package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"picsort/internal/logging"
)

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func writeAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("partial"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestCleanStaleRemovesOldPartialCopies(t *testing.T) {
	root := t.TempDir()

	old := filepath.Join(root, "2020-09", ".a.jpg.123.tmp")
	writeAged(t, old, 2*time.Hour)
	recent := filepath.Join(root, "2020-09", ".b.jpg.456.tmp")
	writeAged(t, recent, 0)
	photo := filepath.Join(root, "2020-09", "a.jpg")
	writeAged(t, photo, 2*time.Hour)
	hiddenPhoto := filepath.Join(root, ".keep")
	writeAged(t, hiddenPhoto, 2*time.Hour)
	deep := filepath.Join(root, "2020-09", "nested", ".c.jpg.789.tmp")
	writeAged(t, deep, 2*time.Hour)
	userTemp := filepath.Join(root, "2020-09", ".notes.tmp")
	writeAged(t, userTemp, 48*time.Hour)

	result := CleanStale(context.Background(), root, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != old {
		t.Fatalf("expected only %s removed, got %v", old, result.Removed)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	for _, keep := range []string{recent, photo, hiddenPhoto, deep, userTemp} {
		if _, err := os.Stat(keep); err != nil {
			t.Errorf("%s should still exist: %v", keep, err)
		}
	}
}

func TestCleanStaleHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, ".a.jpg.1.tmp"), 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := CleanStale(ctx, root, time.Hour, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("cancelled sweep removed %v", result.Removed)
	}
}
