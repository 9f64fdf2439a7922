package store

import (
	"context"
	"sort"
	"sync"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

var _ core.ResultStore = (*InMemoryResultStore)(nil)

// InMemoryResultStore keeps one ComputedResult per subject. Writes replace
// the stored bundle wholesale, which makes concurrent recomputes for the
// same subject safe: the last complete result wins, never a partial merge.
type InMemoryResultStore struct {
	mu      sync.RWMutex
	results map[string]core.ComputedResult
}

func NewInMemoryResultStore() *InMemoryResultStore {
	return &InMemoryResultStore{
		results: make(map[string]core.ComputedResult),
	}
}

func (s *InMemoryResultStore) Upsert(_ context.Context, result core.ComputedResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[result.Subject] = result
	return nil
}

func (s *InMemoryResultStore) Get(_ context.Context, subject string) (*core.ComputedResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[subject]
	if !ok {
		return nil, false, nil
	}
	return &result, true, nil
}

func (s *InMemoryResultStore) ListSubjects(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := make([]string, 0, len(s.results))
	for subject := range s.results {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects, nil
}
