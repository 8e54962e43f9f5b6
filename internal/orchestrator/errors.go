package orchestrator

import "errors"

// ErrInvalidRequest wraps request validation failures; these are the
// caller's fault and are never retried
var ErrInvalidRequest = errors.New("invalid download request")

// ErrTooManyJobs is returned when the number of pending or processing jobs
// has reached the admission ceiling. The condition is transient; callers
// may retry later.
var ErrTooManyJobs = errors.New("too many active jobs")

// ArtifactOutcome is the result of an artifact retrieval query. Missing and
// not-ready artifacts are explicit outcomes, never errors.
type ArtifactOutcome int

const (
	// ArtifactFound means the job completed and its file is on disk
	ArtifactFound ArtifactOutcome = iota

	// ArtifactNotFound means no job exists with the given ID
	ArtifactNotFound

	// ArtifactNotReady means the job exists but has not completed
	ArtifactNotReady

	// ArtifactGone means the job completed or expired but its file has been
	// reclaimed
	ArtifactGone
)

// String returns a readable name for the outcome
func (o ArtifactOutcome) String() string {
	switch o {
	case ArtifactFound:
		return "found"
	case ArtifactNotFound:
		return "not_found"
	case ArtifactNotReady:
		return "not_ready"
	case ArtifactGone:
		return "gone"
	default:
		return "unknown"
	}
}
