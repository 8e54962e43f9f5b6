// Package sweeper reclaims expired artifacts and job records on a periodic
// schedule. Each sweep pass is fault-isolated per item: one failed deletion
// is logged and skipped, never aborting the rest of the pass.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ytget/ytdlp-server/internal/model"
	"github.com/ytget/ytdlp-server/internal/registry"
	"github.com/ytget/ytdlp-server/internal/store"
)

// Defaults for the sweep schedule
const (
	DefaultInterval = time.Hour
	DefaultMaxAge   = 24 * time.Hour

	// RetryDelay is the back-off before the loop resumes after a failed
	// cycle
	RetryDelay = time.Minute

	// ForceCleanupAge is the age threshold used by an operator-triggered
	// immediate sweep
	ForceCleanupAge = time.Hour
)

// Stats describes the outcome of a sweep pass
type Stats struct {
	RemovedFiles int             `json:"removed_files"`
	ExpiredJobs  int             `json:"expired_jobs"`
	Usage        store.DiskUsage `json:"disk_usage"`
	SweptAt      time.Time       `json:"swept_at"`
}

// Sweeper periodically expires stale job records and deletes their
// artifacts
type Sweeper struct {
	store    *store.Store
	registry *registry.Registry
	log      *slog.Logger
	interval time.Duration
	maxAge   time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	running  bool
	mu       sync.Mutex
}

// New creates a sweeper with the given schedule; non-positive values fall
// back to the defaults
func New(st *store.Store, reg *registry.Registry, interval, maxAge time.Duration, log *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Sweeper{
		store:    st,
		registry: reg,
		log:      log,
		interval: interval,
		maxAge:   maxAge,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. Calling it twice is a no-op.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true

	go s.loop(ctx)
	s.log.Info("cleanup scheduler started", "interval", s.interval, "max_age", s.maxAge)
}

// Stop cancels the sweep loop and returns once it has exited. The
// cancellation interrupts the inter-cycle wait; a deletion already in
// flight finishes first because the loop only observes the stop signal
// between waits.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	s.log.Info("cleanup scheduler stopped")
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	for {
		stats, err := s.safeSweep()
		if err != nil {
			s.log.Error("sweep pass failed", "error", err)
		} else if stats.RemovedFiles > 0 || stats.ExpiredJobs > 0 {
			s.log.Info("sweep pass finished",
				"removed_files", stats.RemovedFiles,
				"expired_jobs", stats.ExpiredJobs)
		}

		wait := s.interval
		if err != nil {
			wait = RetryDelay
		}

		select {
		case <-time.After(wait):
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// safeSweep runs one pass, converting a panicking cycle into an error so
// the loop can back off and retry instead of dying
func (s *Sweeper) safeSweep() (stats Stats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sweep panic: %v", r)
		}
	}()
	return s.Sweep(), nil
}

// Sweep runs one pass: reclaim stale files under the storage root, then
// expire every job past its retention window and delete its artifact. The
// expired record itself stays queryable until an explicit purge.
func (s *Sweeper) Sweep() Stats {
	stats := Stats{SweptAt: time.Now().UTC()}

	removed := s.sweepFiles(s.maxAge)
	stats.RemovedFiles = len(removed)

	stats.ExpiredJobs = s.sweepJobs()
	stats.Usage = s.store.Usage()
	return stats
}

// ForceCleanup runs an immediate pass with the aggressive age threshold and
// reports statistics including disk usage
func (s *Sweeper) ForceCleanup() Stats {
	stats := Stats{SweptAt: time.Now().UTC()}
	stats.RemovedFiles = len(s.sweepFiles(ForceCleanupAge))
	stats.ExpiredJobs = s.sweepJobs()
	stats.Usage = s.store.Usage()
	return stats
}

func (s *Sweeper) sweepFiles(maxAge time.Duration) []string {
	removed := s.store.SweepOlderThan(maxAge)
	for _, path := range removed {
		s.log.Debug("removed stale entry", "path", path)
	}
	return removed
}

func (s *Sweeper) sweepJobs() int {
	expired := 0
	for _, job := range s.registry.ListAll() {
		if !job.IsExpired() || job.Status == model.JobStatusExpired {
			continue
		}

		if job.FilePath != "" && s.store.FileExists(job.FilePath) {
			if !s.store.Delete(job.FilePath) {
				s.log.Warn("failed to delete artifact for expired job", "job_id", job.ID, "path", job.FilePath)
			}
		}
		if !s.store.DeleteDirectory(s.store.JobDir(job.ID)) {
			s.log.Debug("job directory already absent", "job_id", job.ID)
		}

		s.registry.Update(job.ID, func(j *model.Job) {
			j.Status = model.JobStatusExpired
		})
		expired++
	}
	return expired
}
