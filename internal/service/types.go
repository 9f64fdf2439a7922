package service

import "github.com/steph544/compliance-app-sub001/internal/core"

// ComputeRequest carries one assessment computation.
type ComputeRequest struct {
	// Subject identifies the organization or product assessment.
	Subject string `json:"subject"`

	// Answers is the raw questionnaire payload.
	Answers core.Answers `json:"answers"`

	// Vendor optionally overrides the vendor preference derived from the
	// answers (and the configured default) for guidance resolution.
	Vendor string `json:"vendor,omitempty"`
}

// ExplainRequest asks for a full evaluation trace, either from live answers
// or by replaying a prior computation's audit entry.
type ExplainRequest struct {
	// Answers runs a live trace without persisting anything.
	Answers core.Answers `json:"answers,omitempty"`

	// ReplayID replays the fact context recorded under this correlation id.
	ReplayID string `json:"replay_id,omitempty"`
}
