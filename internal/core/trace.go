package core

// EvaluationTrace captures the detailed trace of one rule resolution run.
type EvaluationTrace struct {
	// CorrelationID is the unique identifier for the evaluation request.
	CorrelationID string `yaml:"correlation_id" json:"correlation_id"`

	// Context is the fact context the rules were evaluated against.
	Context FactContext `yaml:"context" json:"context"`

	// RuleResults contains the result of every enabled rule, in priority order.
	RuleResults []RuleResult `yaml:"rule_results" json:"rule_results"`

	// Selections is the accumulated outcome of the run.
	Selections []ControlSelection `yaml:"selections" json:"selections"`
}

// RuleResult captures why a specific rule matched or failed.
type RuleResult struct {
	RuleID           string            `yaml:"rule_id" json:"rule_id"`
	RuleName         string            `yaml:"rule_name" json:"rule_name"`
	Priority         int               `yaml:"priority" json:"priority"`
	Matched          bool              `yaml:"matched" json:"matched"`
	ConditionResults []ConditionResult `json:"condition_results,omitempty"`
}

// ConditionResult is the outcome of one atomic condition inside a rule.
type ConditionResult struct {
	Matched bool `json:"matched"`

	// Expression renders the condition, e.g. "data.categories contains phi".
	Expression string `json:"expression"`

	// Reason explains a failed (or notable) evaluation.
	Reason string `json:"reason,omitempty"`
}
