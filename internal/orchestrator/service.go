// Package orchestrator owns the job state machine. It admits submissions
// against the concurrency ceiling, drives each admitted job through the
// process runner on a tracked goroutine, and writes every state change back
// through the registry's atomic update contract. Terminal states absorb all
// later updates as no-ops so a still-draining process pipe cannot corrupt a
// settled record.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ytget/ytdlp-server/internal/model"
	"github.com/ytget/ytdlp-server/internal/registry"
	"github.com/ytget/ytdlp-server/internal/store"
	"github.com/ytget/ytdlp-server/internal/ytdlp"
)

// DefaultMaxConcurrent is the default admission ceiling for active jobs
const DefaultMaxConcurrent = 5

// DefaultPollInterval is how often progress subscriptions re-read the
// registry
const DefaultPollInterval = time.Second

// FallbackErrorMessage is recorded when a failure carries no detail. Failed
// jobs always expose a non-empty message.
const FallbackErrorMessage = "unknown error"

// ProgressEvent is one observed {status, progress} snapshot for a
// subscribed job
type ProgressEvent struct {
	JobID    string          `json:"job_id"`
	Status   model.JobStatus `json:"status"`
	Progress int             `json:"progress"`
}

// ArtifactResult is the answer to an artifact retrieval query
type ArtifactResult struct {
	Outcome  ArtifactOutcome
	FilePath string
	FileSize int64
}

// Orchestrator coordinates job submissions, the process runner and the
// registry
type Orchestrator struct {
	registry      *registry.Registry
	store         *store.Store
	runner        *ytdlp.Runner
	log           *slog.Logger
	maxConcurrent int
	retention     time.Duration
	pollInterval  time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an orchestrator with the given ceiling and retention window.
// A non-positive ceiling falls back to DefaultMaxConcurrent; a non-positive
// retention falls back to model.DefaultRetention at job creation.
func New(reg *registry.Registry, st *store.Store, runner *ytdlp.Runner, maxConcurrent int, retention time.Duration, log *slog.Logger) *Orchestrator {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		registry:      reg,
		store:         st,
		runner:        runner,
		log:           log,
		maxConcurrent: maxConcurrent,
		retention:     retention,
		pollInterval:  DefaultPollInterval,
		baseCtx:       ctx,
		cancel:        cancel,
	}
}

// SetPollInterval adjusts how often progress subscriptions re-read the
// registry
func (o *Orchestrator) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		o.pollInterval = interval
	}
}

// Submit validates the request, admits it against the ceiling and starts
// the download in the background. It returns the pending job immediately;
// the caller is never blocked on the download itself. Failures after
// admission are recorded into the job, not returned here.
func (o *Orchestrator) Submit(req *model.DownloadRequest) (model.Job, error) {
	if err := req.Validate(); err != nil {
		return model.Job{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	job := model.NewJob(req.ID, o.retention)
	if err := o.registry.CreateIfUnder(job, o.maxConcurrent); err != nil {
		if errors.Is(err, registry.ErrCeilingReached) {
			return model.Job{}, ErrTooManyJobs
		}
		return model.Job{}, err
	}

	o.log.Info("job admitted", "job_id", job.ID, "url", req.URL, "format", req.Format)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.process(req, job.ID)
	}()

	return *job, nil
}

// process drives one admitted job through the runner to a terminal state
func (o *Orchestrator) process(req *model.DownloadRequest, jobID string) {
	jobDir, err := o.store.CreateJobDir(jobID)
	if err != nil {
		o.Fail(jobID, fmt.Sprintf("failed to create output directory: %v", err))
		return
	}

	o.AdvanceProgress(jobID, model.MinProgress)

	result, err := o.runner.Run(o.baseCtx, req, jobDir, func(percent int) {
		o.AdvanceProgress(jobID, percent)
	})
	if err != nil {
		o.Fail(jobID, err.Error())
		return
	}

	o.Complete(jobID, result.FilePath, result.FileSize)
}

// AdvanceProgress records a progress update from the runner. The percentage
// is clamped to 0..100 and to the maximum already seen, so late or
// duplicated reports from the heuristic parser can never move a job
// backwards. The first call moves a pending job to processing and stamps
// StartedAt. Terminal jobs ignore the update.
func (o *Orchestrator) AdvanceProgress(jobID string, percent int) {
	percent = model.ClampProgress(percent)

	o.registry.Update(jobID, func(job *model.Job) {
		if job.Status.IsTerminal() {
			return
		}

		if job.Status != model.JobStatusProcessing {
			job.Status = model.JobStatusProcessing
			if job.StartedAt == nil {
				now := time.Now().UTC()
				job.StartedAt = &now
			}
		}

		if percent > job.Progress {
			job.Progress = percent
		}
	})
}

// Complete settles a job as completed with its artifact. Calling it again
// on an already terminal job is a no-op, so a retried runner path cannot
// corrupt a settled record.
func (o *Orchestrator) Complete(jobID string, filePath string, fileSize int64) {
	transitioned := false
	o.registry.Update(jobID, func(job *model.Job) {
		if job.Status.IsTerminal() {
			return
		}

		now := time.Now().UTC()
		job.Status = model.JobStatusCompleted
		job.Progress = model.MaxProgress
		job.FilePath = filePath
		job.FileSize = fileSize
		job.CompletedAt = &now
		transitioned = true
	})
	if transitioned {
		o.log.Info("job completed", "job_id", jobID, "file_path", filePath, "file_size", fileSize)
	}
}

// Fail settles a job as failed with a human-readable message. Terminal jobs
// ignore the call.
func (o *Orchestrator) Fail(jobID string, message string) {
	if message == "" {
		message = FallbackErrorMessage
	}

	transitioned := false
	o.registry.Update(jobID, func(job *model.Job) {
		if job.Status.IsTerminal() {
			return
		}

		now := time.Now().UTC()
		job.Status = model.JobStatusFailed
		job.ErrorMessage = message
		job.CompletedAt = &now
		transitioned = true
	})
	if transitioned {
		o.log.Warn("job failed", "job_id", jobID, "error", message)
	}
}

// Status returns a snapshot of the job with the given ID
func (o *Orchestrator) Status(jobID string) (model.Job, bool) {
	return o.registry.Get(jobID)
}

// ExtractMetadata performs the synchronous metadata-only extraction path
func (o *Orchestrator) ExtractMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	if err := model.ValidateVideoURL(url); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return o.runner.ExtractMetadata(ctx, url)
}

// Subscribe returns a channel of {status, progress} snapshots for the job,
// one per observed change, closed when the job reaches a terminal status or
// ctx is canceled. The second return is false when no such job exists.
func (o *Orchestrator) Subscribe(ctx context.Context, jobID string) (<-chan ProgressEvent, bool) {
	if _, exists := o.registry.Get(jobID); !exists {
		return nil, false
	}

	events := make(chan ProgressEvent, 1)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer close(events)

		ticker := time.NewTicker(o.pollInterval)
		defer ticker.Stop()

		lastProgress := -1
		var lastStatus model.JobStatus

		for {
			job, exists := o.registry.Get(jobID)
			if !exists {
				return
			}

			if job.Progress != lastProgress || job.Status != lastStatus {
				select {
				case events <- ProgressEvent{JobID: job.ID, Status: job.Status, Progress: job.Progress}:
					lastProgress = job.Progress
					lastStatus = job.Status
				case <-ctx.Done():
					return
				case <-o.baseCtx.Done():
					return
				}
			}

			if job.Status.IsTerminal() {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			case <-o.baseCtx.Done():
				return
			}
		}
	}()

	return events, true
}

// Artifact answers the three independently checkable retrieval conditions:
// does the job exist, did it complete, and is its file still on disk.
func (o *Orchestrator) Artifact(jobID string) ArtifactResult {
	job, exists := o.registry.Get(jobID)
	if !exists {
		return ArtifactResult{Outcome: ArtifactNotFound}
	}

	switch job.Status {
	case model.JobStatusCompleted:
		if job.FilePath == "" || !o.store.FileExists(job.FilePath) {
			return ArtifactResult{Outcome: ArtifactGone}
		}
		return ArtifactResult{Outcome: ArtifactFound, FilePath: job.FilePath, FileSize: job.FileSize}
	case model.JobStatusExpired:
		return ArtifactResult{Outcome: ArtifactGone}
	default:
		return ArtifactResult{Outcome: ArtifactNotReady}
	}
}

// ActiveCount returns the number of jobs currently counted against the
// admission ceiling
func (o *Orchestrator) ActiveCount() int {
	return o.registry.CountActive()
}

// Shutdown cancels the base context, killing any in-flight yt-dlp
// processes, and waits for all tracked goroutines to settle or ctx to
// expire. Jobs interrupted this way end up failed with the context error.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.cancel()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
