package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "downloads"), slog.Default())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestNew_CreatesRoot(t *testing.T) {
	s := newTestStore(t)
	info, err := os.Stat(s.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("expected storage root directory, err=%v", err)
	}
}

func TestFileExistsAndSize(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root(), "video.mp4")

	if s.FileExists(path) {
		t.Error("expected missing file to not exist")
	}
	if size := s.FileSize(path); size != 0 {
		t.Errorf("expected size 0 for missing file, got %d", size)
	}

	writeFile(t, path, "12345")
	if !s.FileExists(path) {
		t.Error("expected file to exist")
	}
	if size := s.FileSize(path); size != 5 {
		t.Errorf("expected size 5, got %d", size)
	}
}

func TestDelete_Twice(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root(), "video.mp4")
	writeFile(t, path, "data")

	if !s.Delete(path) {
		t.Error("expected first delete to succeed")
	}
	if s.Delete(path) {
		t.Error("expected second delete to report already absent")
	}
}

func TestDeleteDirectory(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.CreateJobDir("job-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	writeFile(t, filepath.Join(dir, "video.mp4"), "data")

	if !s.DeleteDirectory(dir) {
		t.Error("expected delete to succeed")
	}
	if s.DeleteDirectory(dir) {
		t.Error("expected second delete to report already absent")
	}
	if s.FileExists(filepath.Join(dir, "video.mp4")) {
		t.Error("expected directory contents gone")
	}
}

func TestListJobFiles(t *testing.T) {
	s := newTestStore(t)
	dir, err := s.CreateJobDir("job-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if files := s.ListJobFiles("job-1"); len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}

	writeFile(t, filepath.Join(dir, "a.mp4"), "a")
	writeFile(t, filepath.Join(dir, "b.srt"), "b")

	if files := s.ListJobFiles("job-1"); len(files) != 2 {
		t.Errorf("expected 2 files, got %v", files)
	}
	if files := s.ListJobFiles("missing"); files != nil {
		t.Errorf("expected nil for unknown job, got %v", files)
	}
}

func TestSweepOlderThan(t *testing.T) {
	s := newTestStore(t)

	oldFile := filepath.Join(s.Root(), "old.mp4")
	writeFile(t, oldFile, "old")
	oldDir, err := s.CreateJobDir("old-job")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	newFile := filepath.Join(s.Root(), "new.mp4")
	writeFile(t, newFile, "new")

	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldFile, stale, stale); err != nil {
		t.Fatalf("failed to age file: %v", err)
	}
	if err := os.Chtimes(oldDir, stale, stale); err != nil {
		t.Fatalf("failed to age dir: %v", err)
	}

	removed := s.SweepOlderThan(24 * time.Hour)
	if len(removed) != 2 {
		t.Fatalf("expected 2 removed entries, got %v", removed)
	}
	if s.FileExists(oldFile) {
		t.Error("expected old file removed")
	}
	if s.FileExists(newFile) == false {
		t.Error("expected fresh file kept")
	}
}

func TestUsage(t *testing.T) {
	s := newTestStore(t)
	usage := s.Usage()
	if usage.Total == 0 {
		t.Error("expected non-zero total space")
	}
	if usage.Used+usage.Free > usage.Total {
		t.Errorf("expected used+free <= total, got %+v", usage)
	}
}
