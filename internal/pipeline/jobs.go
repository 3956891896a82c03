package pipeline

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BatchStatus represents the state of an extract-all run.
type BatchStatus string

const (
	StatusRunning   BatchStatus = "running"
	StatusCompleted BatchStatus = "completed"
	StatusPartial   BatchStatus = "partial"
	StatusFailed    BatchStatus = "failed"
)

// Output describes one written summary file.
type Output struct {
	Tag      string `json:"tag"`
	Path     string `json:"path"`
	HTMLPath string `json:"html_path,omitempty"`
	Lines    int    `json:"lines"`
}

// Progress tracks how far a batch got.
type Progress struct {
	TotalTags   int      `json:"total_tags"`
	TagsWritten int      `json:"tags_written"`
	Errors      []string `json:"errors"`
}

// Batch tracks the state of a single extract-all run over one document.
// Its methods are safe for use from the batch's worker goroutines.
type Batch struct {
	mu sync.Mutex

	ID          string      `json:"batch_id"`
	Input       string      `json:"input"`
	Status      BatchStatus `json:"status"`
	ContentHash string      `json:"content_hash,omitempty"`
	Progress    Progress    `json:"progress"`
	Outputs     []Output    `json:"outputs"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func NewBatch(input string) *Batch {
	now := time.Now()
	return &Batch{
		ID:        uuid.NewString(),
		Input:     input,
		Status:    StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates batch status atomically.
func (b *Batch) SetStatus(status BatchStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Status = status
	b.UpdatedAt = time.Now()
}

// SetTotal records how many tags the batch will extract.
func (b *Batch) SetTotal(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Progress.TotalTags = n
	b.UpdatedAt = time.Now()
}

// AddOutput records a written summary.
func (b *Batch) AddOutput(o Output) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Outputs = append(b.Outputs, o)
	b.Progress.TagsWritten++
	b.UpdatedAt = time.Now()
}

// AddError records a per-tag failure.
func (b *Batch) AddError(err string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Progress.Errors = append(b.Progress.Errors, err)
	b.UpdatedAt = time.Now()
}

// finish settles the final status and orders outputs by tag position.
func (b *Batch) finish(order []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rank := make(map[string]int, len(order))
	for i, tag := range order {
		rank[tag] = i
	}
	slices.SortFunc(b.Outputs, func(x, y Output) int { return rank[x.Tag] - rank[y.Tag] })

	switch {
	case len(b.Progress.Errors) == 0:
		b.Status = StatusCompleted
	case b.Progress.TagsWritten > 0:
		b.Status = StatusPartial
	default:
		b.Status = StatusFailed
	}
	b.UpdatedAt = time.Now()
}

// BatchSnapshot is a read-only, JSON-safe copy of batch state.
type BatchSnapshot struct {
	ID       string      `json:"batch_id"`
	Input    string      `json:"input"`
	Status   BatchStatus `json:"status"`
	Progress Progress    `json:"progress"`
	Outputs  []Output    `json:"outputs"`
}

// Snapshot returns a JSON-safe copy of the batch state.
func (b *Batch) Snapshot() BatchSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	errs := slices.Clone(b.Progress.Errors)
	if errs == nil {
		errs = []string{}
	}
	outs := slices.Clone(b.Outputs)
	if outs == nil {
		outs = []Output{}
	}
	return BatchSnapshot{
		ID:     b.ID,
		Input:  b.Input,
		Status: b.Status,
		Progress: Progress{
			TotalTags:   b.Progress.TotalTags,
			TagsWritten: b.Progress.TagsWritten,
			Errors:      errs,
		},
		Outputs: outs,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
