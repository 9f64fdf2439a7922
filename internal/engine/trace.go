package engine

import (
	"fmt"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

// Trace runs a full resolution and records, for every enabled rule, which
// conditions passed and why the others failed. It is the backing for the
// `why` command and the admin explain endpoint.
func (e *Engine) Trace(ctx core.FactContext) core.EvaluationTrace {
	trace := core.EvaluationTrace{
		Context:     ctx,
		RuleResults: []core.RuleResult{},
	}

	for _, rule := range e.orderedRules() {
		trace.RuleResults = append(trace.RuleResults, traceRule(rule, ctx))
	}

	trace.Selections = e.Resolve(ctx)
	return trace
}

func traceRule(rule core.Rule, ctx core.FactContext) core.RuleResult {
	result := core.RuleResult{
		RuleID:           rule.RuleID,
		RuleName:         rule.Name,
		Priority:         rule.Priority,
		Matched:          EvaluateGroup(rule.Conditions, ctx),
		ConditionResults: []core.ConditionResult{},
	}

	// only the honored branch is traced; 'all' shadows 'any' like in evaluation
	conds := rule.Conditions.All
	mode := "ALL"
	if conds == nil {
		conds = rule.Conditions.Any
		mode = "ANY"
	}
	if conds == nil {
		result.ConditionResults = append(result.ConditionResults, core.ConditionResult{
			Matched:    false,
			Expression: "(no conditions)",
			Reason:     "a group without 'all' or 'any' never matches",
		})
		return result
	}

	for _, cond := range conds {
		matched, reason := evalCondition(cond, ctx)
		result.ConditionResults = append(result.ConditionResults, core.ConditionResult{
			Matched:    matched,
			Expression: fmt.Sprintf("[%s] %s %s %v", mode, cond.Field, cond.Operator, cond.Value),
			Reason:     reason,
		})
	}

	return result
}
