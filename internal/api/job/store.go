// internal/api/job/store.go
package job

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/screener/internal/core"
)

// Status represents scan run status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Run records one scan from trigger to resolution.
type Run struct {
	ID           string    `json:"id"`
	Status       Status    `json:"status"`
	Progress     int       `json:"progress"`
	ProgressText string    `json:"progress_text"`
	ResultCount  int       `json:"result_count"`
	StrongBuys   int       `json:"strong_buys"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Done reports whether the run has resolved.
func (r Run) Done() bool {
	return r.Status == StatusComplete || r.Status == StatusFailed
}

// Store keeps the most recent scan runs in memory.
type Store struct {
	runs    map[string]*Run
	order   []string // insertion order, for eviction
	maxSize int
	ttl     time.Duration
	mu      sync.RWMutex
	now     func() time.Time
}

// NewStore creates a run store holding at most maxSize runs, each kept for
// at most ttl (zero disables expiry).
func NewStore(maxSize int, ttl time.Duration) *Store {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Store{
		runs:    make(map[string]*Run),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Start creates a pending run and returns its id.
func (s *Store) Start() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()

	now := s.now()
	run := &Run{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if len(s.runs) >= s.maxSize && len(s.order) > 0 {
		oldest := s.order[0]
		delete(s.runs, oldest)
		s.order = s.order[1:]
	}

	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)

	return run.ID
}

// Progress marks the run running and records the cosmetic progress step.
func (s *Store) Progress(id string, percent int, text string) {
	s.update(id, func(r *Run) {
		r.Status = StatusRunning
		r.Progress = percent
		r.ProgressText = text
	})
}

// Complete resolves the run successfully.
func (s *Store) Complete(id string, resultCount, strongBuys int) {
	s.update(id, func(r *Run) {
		r.Status = StatusComplete
		r.Progress = 100
		r.ResultCount = resultCount
		r.StrongBuys = strongBuys
	})
}

// Fail resolves the run with an error message.
func (s *Store) Fail(id string, message string) {
	s.update(id, func(r *Run) {
		r.Status = StatusFailed
		r.Error = message
	})
}

// Get retrieves a run by ID.
func (s *Store) Get(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, core.ErrNotFound
	}

	runCopy := *run
	return &runCopy, nil
}

// Latest returns the most recently started run.
func (s *Store) Latest() (*Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return nil, false
	}
	runCopy := *s.runs[s.order[len(s.order)-1]]
	return &runCopy, true
}

// List returns all runs, newest first.
func (s *Store) List() []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, *run)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *Store) update(id string, fn func(*Run)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok {
		return
	}

	fn(run)
	run.UpdatedAt = s.now()
}

// evictExpired drops runs older than the ttl. Callers hold the lock.
func (s *Store) evictExpired() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	kept := s.order[:0]
	for _, id := range s.order {
		run := s.runs[id]
		if run.Done() && run.UpdatedAt.Before(cutoff) {
			delete(s.runs, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}
