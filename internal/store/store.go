// Package store manages on-disk placement of job artifacts under a single
// storage root, one directory per job ID. Missing files are a normal
// outcome for every operation here, never an error.
package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// DefaultRoot is the storage root used when none is configured
const DefaultRoot = "downloads"

// DiskUsage reports filesystem space for the storage root, in bytes
type DiskUsage struct {
	Total uint64 `json:"total"`
	Used  uint64 `json:"used"`
	Free  uint64 `json:"free"`
}

// Store handles artifact file operations under a storage root
type Store struct {
	root string
	log  *slog.Logger
}

// New creates a store rooted at dir, creating the directory if needed
func New(dir string, log *slog.Logger) (*Store, error) {
	if dir == "" {
		dir = DefaultRoot
	}
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return nil, err
	}
	return &Store{root: dir, log: log}, nil
}

// Root returns the storage root directory
func (s *Store) Root() string {
	return s.root
}

// JobDir returns the dedicated output directory path for a job ID
func (s *Store) JobDir(jobID string) string {
	return filepath.Join(s.root, jobID)
}

// CreateJobDir creates the dedicated output directory for a job and returns
// its path. Each job gets its own directory so concurrent downloads cannot
// collide and cleanup stays directory-scoped.
func (s *Store) CreateJobDir(jobID string) (string, error) {
	dir := s.JobDir(jobID)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return "", err
	}
	return dir, nil
}

// ListJobFiles returns the regular files inside a job's directory
func (s *Store) ListJobFiles(jobID string) []string {
	entries, err := os.ReadDir(s.JobDir(jobID))
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(s.JobDir(jobID), entry.Name()))
	}
	return files
}

// FileExists reports whether a file exists at path
func (s *Store) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileSize returns the file size in bytes, or 0 when unreadable
func (s *Store) FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Delete removes a file, reporting success. A missing or locked file yields
// false, never an error.
func (s *Store) Delete(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return os.Remove(path) == nil
}

// DeleteDirectory removes a directory and all its contents, reporting
// success. A missing directory yields false.
func (s *Store) DeleteDirectory(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return os.RemoveAll(path) == nil
}

// SweepOlderThan removes every file or directory directly under the storage
// root whose modification time precedes now-maxAge, returning the removed
// paths. Failures on individual entries are logged and skipped so one bad
// entry cannot abort the sweep.
func (s *Store) SweepOlderThan(maxAge time.Duration) []string {
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.log.Error("failed to read storage root", "root", s.root, "error", err)
		return nil
	}

	var removed []string
	for _, entry := range entries {
		path := filepath.Join(s.root, entry.Name())
		info, err := entry.Info()
		if err != nil {
			s.log.Warn("failed to stat entry during sweep", "path", path, "error", err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		ok := false
		if entry.IsDir() {
			ok = s.DeleteDirectory(path)
		} else {
			ok = s.Delete(path)
		}
		if ok {
			removed = append(removed, path)
		} else {
			s.log.Warn("failed to remove entry during sweep", "path", path)
		}
	}
	return removed
}

// Usage returns total, used and free space for the filesystem holding the
// storage root. Unreadable filesystems report zeroes.
func (s *Store) Usage() DiskUsage {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.root, &stat); err != nil {
		return DiskUsage{}
	}

	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return DiskUsage{
		Total: total,
		Used:  total - free,
		Free:  free,
	}
}
