package core

import "time"

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "assessment.compute", "catalog.sync")
	Action string `json:"action"`

	// Subject is the organization or product assessment the action targeted
	Subject string `json:"subject,omitempty"`

	// AnswersFingerprint identifies the exact answers payload that was computed
	AnswersFingerprint string `json:"answers_fingerprint,omitempty"`

	// Context is the fact context the engine ran against, kept for replay
	Context FactContext `json:"context,omitempty"`

	// Outcome details
	RiskTier       RiskTier `json:"risk_tier,omitempty"`
	RiskScore      float64  `json:"risk_score,omitempty"`
	SelectionCount int      `json:"selection_count,omitempty"`
	FindingCount   int      `json:"finding_count,omitempty"`
	Vendor         string   `json:"vendor,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error

	// GetRecent returns up to limit of the newest entries, oldest first.
	GetRecent(limit int) ([]AuditEntry, error)

	// Find returns up to limit entries matching the filter, oldest first.
	Find(filter func(entry AuditEntry) bool, limit int) ([]AuditEntry, error)

	Close() error
}
