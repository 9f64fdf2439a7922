package engine

import (
	"sort"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

// Engine holds a loaded rule catalog and resolves control selections from
// fact contexts. It carries no mutable state between runs; every Resolve
// builds its own accumulator, so concurrent runs are safe.
type Engine struct {
	rules []core.Rule
}

// New creates a new Engine with the given rules.
func New(rules []core.Rule) *Engine {
	return &Engine{
		rules: rules,
	}
}

// Resolve evaluates every enabled rule against the context and accumulates
// control selections. Rules run in ascending priority order (stable for equal
// priorities), which fixes the first-seen ordering of reasoning and rule id
// lists. A later matching rule upgrades a selection's designation only when it
// outranks the existing one; downgrades never happen.
//
// Resolve never errors: malformed context values fall through the evaluator's
// fail-closed paths, and rules selecting unknown control ids resolve fine here
// (absence only manifests in the mapper).
func (e *Engine) Resolve(ctx core.FactContext) []core.ControlSelection {
	ordered := e.orderedRules()

	selections := make(map[string]*core.ControlSelection)
	var order []string

	for _, rule := range ordered {
		if !EvaluateGroup(rule.Conditions, ctx) {
			continue
		}
		reason := rule.Actions.Explanation
		if reason == "" {
			reason = rule.Name
		}

		for _, controlID := range rule.Actions.SelectControls {
			sel, exists := selections[controlID]
			if !exists {
				selections[controlID] = &core.ControlSelection{
					ControlID:   controlID,
					Designation: rule.Actions.Designation,
					Reasoning:   []string{reason},
					RuleIDs:     []string{rule.RuleID},
				}
				order = append(order, controlID)
				continue
			}

			sel.Reasoning = append(sel.Reasoning, reason)
			if !containsString(sel.RuleIDs, rule.RuleID) {
				sel.RuleIDs = append(sel.RuleIDs, rule.RuleID)
			}
			if rule.Actions.Designation.Outranks(sel.Designation) {
				sel.Designation = rule.Actions.Designation
			}
		}
	}

	result := make([]core.ControlSelection, 0, len(order))
	for _, controlID := range order {
		result = append(result, *selections[controlID])
	}
	return result
}

// orderedRules returns the enabled rules sorted by ascending priority.
// The sort is stable so equal-priority rules keep their catalog order,
// which makes the whole run deterministic.
func (e *Engine) orderedRules() []core.Rule {
	ordered := make([]core.Rule, 0, len(e.rules))
	for _, rule := range e.rules {
		if rule.IsEnabled() {
			ordered = append(ordered, rule)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
