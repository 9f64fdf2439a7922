package core

import (
	"fmt"
	"strings"
	"time"
)

// Answers is the raw questionnaire payload, keyed by wizard step identifier.
// Each step holds an arbitrary question -> value mapping. The core only reads
// the paths its scoring and fact-building logic names; everything else is
// carried along untouched.
type Answers map[string]map[string]any

// FactContext is the flat snapshot of answer-derived facts (plus computed
// facts such as the risk tier) that rule conditions are evaluated against.
// It is built fresh per computation and must never be mutated afterwards.
type FactContext map[string]any

// Resolve walks a dotted field path through the context.
// Any missing or nil intermediate short-circuits to (nil, false).
func (f FactContext) Resolve(path string) (any, bool) {
	var current any = map[string]any(f)

	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		key := path[start:i]
		start = i + 1

		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[key]
		if !ok || v == nil {
			return nil, false
		}
		current = v
	}
	return current, true
}

// Designation is the obligation level assigned to a control.
type Designation string

const (
	DesignationRequired    Designation = "REQUIRED"
	DesignationRecommended Designation = "RECOMMENDED"
	DesignationOptional    Designation = "OPTIONAL"
)

var designationRank = map[Designation]int{
	DesignationRequired:    3,
	DesignationRecommended: 2,
	DesignationOptional:    1,
}

func (d Designation) IsValid() bool {
	_, ok := designationRank[d]
	return ok
}

// ParseDesignation normalizes a designation string to its canonical
// upper-case form. Catalog authors tend to write them lower-case.
func ParseDesignation(s string) (Designation, error) {
	d := Designation(strings.ToUpper(s))
	if !d.IsValid() {
		return "", fmt.Errorf("unknown designation '%s'", s)
	}
	return d, nil
}

// Rank returns the ordinal strength of the designation.
// Unknown designations rank below OPTIONAL so they can never upgrade anything.
func (d Designation) Rank() int {
	return designationRank[d]
}

// Outranks reports whether d is strictly stronger than other.
func (d Designation) Outranks(other Designation) bool {
	return d.Rank() > other.Rank()
}

// RuleActions describes what a matching rule contributes to the result.
type RuleActions struct {
	// SelectControls lists the control ids this rule obligates.
	SelectControls []string `yaml:"select_controls" json:"selectControls"`

	// Designation is the obligation level this rule assigns.
	Designation Designation `yaml:"designation" json:"designation"`

	// Explanation is the reasoning text recorded on the selection.
	// Falls back to the rule name when empty.
	Explanation string `yaml:"explanation" json:"explanation,omitempty"`
}

// Rule binds a condition group to control selection actions.
// Rules are immutable catalog entries; the engine never mutates them.
type Rule struct {
	// RuleID uniquely identifies the rule within the catalog.
	RuleID string `yaml:"rule_id" json:"ruleId"`

	// Name is a human-readable identifier for logs and reasoning fallback.
	Name string `yaml:"name" json:"name"`

	// Priority orders evaluation: lower values are evaluated first.
	// It determines first-seen ordering of reasoning entries, not the
	// designation outcome.
	Priority int `yaml:"priority" json:"priority"`

	// Conditions must hold for the rule to fire.
	Conditions ConditionGroup `yaml:"conditions" json:"conditions"`

	// Actions are applied when the rule fires.
	Actions RuleActions `yaml:"actions" json:"actions"`

	// Enabled defaults to true when absent.
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// IsEnabled reports whether the rule participates in evaluation.
func (r Rule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// ControlSelection is the accumulated obligation for one control across all
// matching rules of a single engine run.
type ControlSelection struct {
	ControlID string `json:"controlId"`

	// Designation is the highest designation seen across contributing rules.
	Designation Designation `json:"designation"`

	// Reasoning holds one entry per contributing rule, in evaluation order.
	Reasoning []string `json:"reasoning"`

	// RuleIDs lists contributing rules, deduplicated, in first-seen order.
	RuleIDs []string `json:"ruleIds"`
}

// VendorGuidance is a per-vendor overlay on a control's generic guidance.
type VendorGuidance struct {
	Service     string `yaml:"service" json:"service"`
	Description string `yaml:"description" json:"description"`
	Steps       string `yaml:"steps" json:"steps"`
}

// Control is a read-only control catalog entry.
type Control struct {
	ControlID           string   `yaml:"control_id" json:"controlId"`
	Name                string   `yaml:"name" json:"name"`
	Description         string   `yaml:"description" json:"description"`
	ImplementationSteps string   `yaml:"implementation_steps" json:"implementationSteps"`
	ImplementationLevel string   `yaml:"implementation_level" json:"implementationLevel"`
	Type                string   `yaml:"type" json:"type"`
	FrameworkRefs       []string `yaml:"framework_refs" json:"frameworkRefs"`
	EvidenceArtifacts   []string `yaml:"evidence_artifacts" json:"evidenceArtifacts"`

	// VendorGuidance maps a vendor key (e.g. "aws", "azure", "gcp") to
	// guidance that replaces the generic description and steps.
	VendorGuidance map[string]VendorGuidance `yaml:"vendor_guidance,omitempty" json:"vendorGuidance,omitempty"`

	// ImplementationVendor and ImplementationService are populated on copies
	// after vendor guidance resolution; catalog entries leave them empty.
	ImplementationVendor  string `yaml:"-" json:"implementationVendor,omitempty"`
	ImplementationService string `yaml:"-" json:"implementationService,omitempty"`
}

// FrameworkFinding is one (control, framework reference) pair emitted by the
// mapper for compliance reporting.
type FrameworkFinding struct {
	Finding               string      `json:"finding"`
	FrameworkRef          string      `json:"frameworkRef"`
	ControlID             string      `json:"controlId"`
	ControlName           string      `json:"controlName"`
	Designation           Designation `json:"designation"`
	Evidence              []string    `json:"evidence"`
	Description           string      `json:"description"`
	ImplementationSteps   string      `json:"implementationSteps"`
	ImplementationLevel   string      `json:"implementationLevel"`
	ControlType           string      `json:"controlType"`
	ImplementationVendor  string      `json:"implementationVendor,omitempty"`
	ImplementationService string      `json:"implementationService,omitempty"`
}

// RiskTier is the discrete risk classification.
type RiskTier string

const (
	TierLow       RiskTier = "LOW"
	TierMedium    RiskTier = "MEDIUM"
	TierHigh      RiskTier = "HIGH"
	TierRegulated RiskTier = "REGULATED"
)

// RiskDriver explains one signed contribution to the risk score.
type RiskDriver struct {
	Factor       string  `json:"factor"`
	Contribution float64 `json:"contribution"`
	Explanation  string  `json:"explanation"`
}

// RiskProfile is the output of the risk scorer.
type RiskProfile struct {
	Tier    RiskTier     `json:"tier"`
	Score   float64      `json:"score"`
	Drivers []RiskDriver `json:"drivers"`
}

// MonitoringPlan describes the ongoing oversight derived from the result.
type MonitoringPlan struct {
	ReviewCadence string   `json:"reviewCadence"`
	Activities    []string `json:"activities"`
}

// ComputedResult is the atomic bundle persisted per subject.
// A recompute replaces the whole bundle (upsert, not incremental merge).
type ComputedResult struct {
	Subject           string             `json:"subject"`
	RiskTier          RiskTier           `json:"riskTier"`
	RiskScore         float64            `json:"riskScore"`
	RiskDrivers       []RiskDriver       `json:"riskDrivers"`
	ControlSelections []ControlSelection `json:"controlSelections"`
	FrameworkFindings []FrameworkFinding `json:"frameworkFindings"`
	MonitoringPlan    *MonitoringPlan    `json:"monitoringPlan,omitempty"`
	ComputedAt        time.Time          `json:"computedAt"`
}

// Fingerprinter derives a stable fingerprint from a raw answers payload.
type Fingerprinter func(payload []byte) string
