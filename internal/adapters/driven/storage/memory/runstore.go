package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
	"github.com/custodia-labs/leadscreen-cli/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu         sync.RWMutex
	runs       map[string]domain.Run
	violations map[string][]domain.Violation
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs:       make(map[string]domain.Run),
		violations: make(map[string][]domain.Violation),
	}
}

// SaveRun stores a completed run.
func (s *RunStore) SaveRun(_ context.Context, run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

// SaveViolations stores the violations of a run.
func (s *RunStore) SaveViolations(_ context.Context, runID string, violations []domain.Violation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.Violation, len(violations))
	copy(stored, violations)
	s.violations[runID] = stored
	return nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, run)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(_ context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// ListViolations returns the violations of a run, in row order.
func (s *RunStore) ListViolations(_ context.Context, runID string) ([]domain.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.violations[runID]
	result := make([]domain.Violation, len(stored))
	copy(result, stored)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Row < result[j].Row
	})
	return result, nil
}
