package model

// JobStatus represents the lifecycle status of a download job
type JobStatus string

const (
	// JobStatusPending means the job is accepted but not started
	JobStatusPending JobStatus = "pending"

	// JobStatusProcessing means the download is in progress
	JobStatusProcessing JobStatus = "processing"

	// JobStatusCompleted means the job finished successfully
	JobStatusCompleted JobStatus = "completed"

	// JobStatusFailed means the job failed with an error
	JobStatusFailed JobStatus = "failed"

	// JobStatusExpired means the job passed its retention window and its
	// artifact has been reclaimed
	JobStatusExpired JobStatus = "expired"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job counts against the admission ceiling
func (js JobStatus) IsActive() bool {
	return js == JobStatusPending || js == JobStatusProcessing
}

// IsTerminal returns true if the job is in a terminal state. Terminal jobs
// accept no further state mutation; late progress or completion signals from
// a still-draining process pipe are dropped.
func (js JobStatus) IsTerminal() bool {
	return js == JobStatusCompleted || js == JobStatusFailed || js == JobStatusExpired
}
