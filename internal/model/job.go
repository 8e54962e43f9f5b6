package model

import (
	"time"

	"github.com/google/uuid"
)

// Progress bounds
const (
	MinProgress = 0
	MaxProgress = 100
)

// DefaultRetention is how long a job and its artifact are kept after creation
const DefaultRetention = 24 * time.Hour

// Job represents one tracked invocation of yt-dlp with its own lifecycle
type Job struct {
	ID           string     `json:"job_id"`
	RequestID    string     `json:"request_id"`
	Status       JobStatus  `json:"status"`
	Progress     int        `json:"progress"` // 0 to 100
	FilePath     string     `json:"file_path,omitempty"`
	FileSize     int64      `json:"file_size,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"` // last error message if any
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// NewJob creates a pending job for the given request with a fresh ID,
// expiring retention after creation. A non-positive retention falls back to
// DefaultRetention.
func NewJob(requestID string, retention time.Duration) *Job {
	if retention <= 0 {
		retention = DefaultRetention
	}

	now := time.Now().UTC()
	return &Job{
		ID:        uuid.New().String(),
		RequestID: requestID,
		Status:    JobStatusPending,
		Progress:  MinProgress,
		CreatedAt: now,
		ExpiresAt: now.Add(retention),
	}
}

// IsExpired returns true if the job's retention window has passed
func (j *Job) IsExpired() bool {
	return time.Now().UTC().After(j.ExpiresAt)
}

// ClampProgress bounds a raw percentage to the valid range
func ClampProgress(percent int) int {
	if percent < MinProgress {
		return MinProgress
	}
	if percent > MaxProgress {
		return MaxProgress
	}
	return percent
}
