// Package registry holds the in-memory job table. It is the single source
// of truth for job state; all mutation goes through Update or
// CreateIfUnder so concurrent progress callbacks and terminal-state writers
// cannot lose updates.
package registry

import (
	"errors"
	"sync"

	"github.com/ytget/ytdlp-server/internal/model"
)

// ErrDuplicateID is returned when creating a job whose ID already exists
var ErrDuplicateID = errors.New("job id already exists")

// ErrCeilingReached is returned when an admission-checked create finds the
// concurrency ceiling already met
var ErrCeilingReached = errors.New("active job ceiling reached")

// Registry is a concurrency-safe mapping from job ID to job record
type Registry struct {
	jobs      map[string]*model.Job
	jobsMutex sync.RWMutex
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		jobs: make(map[string]*model.Job),
	}
}

// Create stores a new job. It fails with ErrDuplicateID if the ID is taken.
func (r *Registry) Create(job *model.Job) error {
	r.jobsMutex.Lock()
	defer r.jobsMutex.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return ErrDuplicateID
	}

	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

// CreateIfUnder atomically checks the number of active (pending or
// processing) jobs against ceiling and stores the job only when there is
// room. The check and the insert happen under one lock so concurrent
// submissions cannot overshoot the ceiling.
func (r *Registry) CreateIfUnder(job *model.Job, ceiling int) error {
	r.jobsMutex.Lock()
	defer r.jobsMutex.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return ErrDuplicateID
	}

	active := 0
	for _, j := range r.jobs {
		if j.Status.IsActive() {
			active++
		}
	}
	if active >= ceiling {
		return ErrCeilingReached
	}

	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

// Get returns a copy of the job with the given ID
func (r *Registry) Get(id string) (model.Job, bool) {
	r.jobsMutex.RLock()
	defer r.jobsMutex.RUnlock()

	job, exists := r.jobs[id]
	if !exists {
		return model.Job{}, false
	}
	return *job, true
}

// Update applies mutate to the job under the write lock, making the
// read-modify-write atomic with respect to all other registry calls on the
// same ID. It returns the post-mutation copy.
func (r *Registry) Update(id string, mutate func(*model.Job)) (model.Job, bool) {
	r.jobsMutex.Lock()
	defer r.jobsMutex.Unlock()

	job, exists := r.jobs[id]
	if !exists {
		return model.Job{}, false
	}

	mutate(job)
	return *job, true
}

// Delete removes the job with the given ID, reporting whether it existed
func (r *Registry) Delete(id string) bool {
	r.jobsMutex.Lock()
	defer r.jobsMutex.Unlock()

	if _, exists := r.jobs[id]; !exists {
		return false
	}
	delete(r.jobs, id)
	return true
}

// ListAll returns a point-in-time copy of every job record
func (r *Registry) ListAll() []model.Job {
	r.jobsMutex.RLock()
	defer r.jobsMutex.RUnlock()

	jobs := make([]model.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, *job)
	}
	return jobs
}

// CountActive returns the number of jobs in pending or processing state
func (r *Registry) CountActive() int {
	r.jobsMutex.RLock()
	defer r.jobsMutex.RUnlock()

	active := 0
	for _, job := range r.jobs {
		if job.Status.IsActive() {
			active++
		}
	}
	return active
}
