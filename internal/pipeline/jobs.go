package pipeline

import (
	"bytes"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/papervox/internal/state"
)

// JobStatus represents the state of a parse job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusStructuring JobStatus = "structuring"
	StatusStoring     JobStatus = "storing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Job tracks the state of a single document parse.
type Job struct {
	mu sync.Mutex

	ID     string `json:"job_id"`
	PackID string `json:"pack_id,omitempty"`

	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	ErrorKind string    `json:"error_kind,omitempty"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// Progress counts what each stage produced.
type Progress struct {
	Pages      int      `json:"pages"`
	Lines      int      `json:"lines"`
	Paragraphs int      `json:"paragraphs"`
	Headings   int      `json:"headings"`
	Sections   int      `json:"sections"`
	Sentences  int      `json:"sentences"`
	Figures    int      `json:"figures"`
	Errors     []string `json:"errors"`
}

// NewJob creates a queued job for the given source bytes.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          newJobID(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
}

// newJobID returns a time-ordered UUIDv7, falling back to a random UUID.
func newJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with an error kind and message.
func (j *Job) Fail(phase, kind, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, msg)
	j.Progress.Errors = j.errors
	j.ErrorKind = kind
	j.Status = StatusFailed
	j.Phase = phase
	j.UpdatedAt = time.Now()
	j.fileData = nil
}

// AddError records a non-fatal error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetExtracted records what the parser produced.
func (j *Job) SetExtracted(pages, lines int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Pages = pages
	j.Progress.Lines = lines
	j.UpdatedAt = time.Now()
}

// SetStructured records what structuring produced.
func (j *Job) SetStructured(paragraphs, headings, sections, sentences, figures int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Paragraphs = paragraphs
	j.Progress.Headings = headings
	j.Progress.Sections = sections
	j.Progress.Sentences = sentences
	j.Progress.Figures = figures
	j.UpdatedAt = time.Now()
}

// Complete marks the job done and links it to the stored pack.
func (j *Job) Complete(packID, title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.PackID = packID
	j.Title = title
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
	j.fileData = nil
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	PackID      string    `json:"pack_id,omitempty"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	progress := j.Progress
	progress.Errors = append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:          j.ID,
		PackID:      j.PackID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		ErrorKind:   j.ErrorKind,
		ContentHash: j.ContentHash,
		Progress:    progress,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex returns the content hash used to key reading positions.
func ContentHashHex(data []byte) string {
	h, _ := state.Hash(bytes.NewReader(data))
	return h
}
