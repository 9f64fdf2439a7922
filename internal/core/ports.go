package core

import "context"

// ResultStore persists one ComputedResult per subject.
// Implementations: in-memory store. A recompute replaces the bundle wholesale;
// the store serializes writes, the core imposes no such discipline itself.
type ResultStore interface {
	// Upsert replaces the persisted result for result.Subject.
	Upsert(ctx context.Context, result ComputedResult) error

	// Get returns the last persisted result for the subject.
	Get(ctx context.Context, subject string) (*ComputedResult, bool, error)

	// ListSubjects returns all subjects with a persisted result.
	ListSubjects(ctx context.Context) ([]string, error)
}
