package engine

import (
	"testing"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

func TestEvaluateCondition(t *testing.T) {
	ctx := core.FactContext{
		"risk": map[string]any{
			"tier":  "HIGH",
			"score": 14,
		},
		"data": map[string]any{
			"categories": []any{"pii", "phi"},
			"empty":      []any{},
			"count":      "12", // deliberately a string
		},
		"deployment": map[string]any{
			"region":   "eu",
			"internet": false,
		},
		"zero":  0,
		"blank": "",
		"name":  "acme assistant",
	}

	tests := []struct {
		name string
		cond core.Condition
		want bool
	}{
		// eq / neq: strict, no coercion
		{name: "Eq Match", cond: core.Condition{Field: "risk.tier", Operator: core.OpEqual, Value: "HIGH"}, want: true},
		{name: "Eq Mismatch", cond: core.Condition{Field: "risk.tier", Operator: core.OpEqual, Value: "LOW"}, want: false},
		{name: "Eq Missing Field", cond: core.Condition{Field: "risk.missing", Operator: core.OpEqual, Value: "x"}, want: false},
		{name: "Eq String Vs Number", cond: core.Condition{Field: "data.count", Operator: core.OpEqual, Value: 12}, want: false},
		{name: "Eq Numeric Widening", cond: core.Condition{Field: "risk.score", Operator: core.OpEqual, Value: 14.0}, want: true},
		{name: "Neq Match", cond: core.Condition{Field: "risk.tier", Operator: core.OpNotEqual, Value: "LOW"}, want: true},
		{name: "Neq Mismatch", cond: core.Condition{Field: "risk.tier", Operator: core.OpNotEqual, Value: "HIGH"}, want: false},

		// in: condition value must be the list
		{name: "In Match", cond: core.Condition{Field: "deployment.region", Operator: core.OpIn, Value: []any{"eu", "uk"}}, want: true},
		{name: "In Mismatch", cond: core.Condition{Field: "deployment.region", Operator: core.OpIn, Value: []any{"us"}}, want: false},
		{name: "In Non-List Value", cond: core.Condition{Field: "deployment.region", Operator: core.OpIn, Value: "eu"}, want: false},

		// contains: array membership or substring, nothing else
		{name: "Contains Array", cond: core.Condition{Field: "data.categories", Operator: core.OpContains, Value: "phi"}, want: true},
		{name: "Contains Array Miss", cond: core.Condition{Field: "data.categories", Operator: core.OpContains, Value: "financial"}, want: false},
		{name: "Contains Substring", cond: core.Condition{Field: "name", Operator: core.OpContains, Value: "assistant"}, want: true},
		{name: "Contains String Vs Number", cond: core.Condition{Field: "name", Operator: core.OpContains, Value: 7}, want: false},
		{name: "Contains On Number", cond: core.Condition{Field: "zero", Operator: core.OpContains, Value: 0}, want: false},

		// gte / lte: numeric only
		{name: "GTE Match", cond: core.Condition{Field: "risk.score", Operator: core.OpGTE, Value: 13}, want: true},
		{name: "GTE Boundary", cond: core.Condition{Field: "risk.score", Operator: core.OpGTE, Value: 14}, want: true},
		{name: "GTE Mismatch", cond: core.Condition{Field: "risk.score", Operator: core.OpGTE, Value: 15}, want: false},
		{name: "GTE String Field", cond: core.Condition{Field: "data.count", Operator: core.OpGTE, Value: 5}, want: false},
		{name: "LTE Match", cond: core.Condition{Field: "risk.score", Operator: core.OpLTE, Value: 20}, want: true},
		{name: "LTE Mismatch", cond: core.Condition{Field: "risk.score", Operator: core.OpLTE, Value: 10}, want: false},
		{name: "LTE String Value", cond: core.Condition{Field: "risk.score", Operator: core.OpLTE, Value: "20"}, want: false},

		// exists / not_exists per-type rules
		{name: "Exists Scalar", cond: core.Condition{Field: "risk.tier", Operator: core.OpExists}, want: true},
		{name: "Exists Zero", cond: core.Condition{Field: "zero", Operator: core.OpExists}, want: true},
		{name: "Exists Empty String", cond: core.Condition{Field: "blank", Operator: core.OpExists}, want: true},
		{name: "Exists False Bool", cond: core.Condition{Field: "deployment.internet", Operator: core.OpExists}, want: false},
		{name: "Exists Missing", cond: core.Condition{Field: "nowhere", Operator: core.OpExists}, want: false},
		{name: "Exists Empty Array", cond: core.Condition{Field: "data.empty", Operator: core.OpExists}, want: false},
		{name: "Exists Non-Empty Array", cond: core.Condition{Field: "data.categories", Operator: core.OpExists}, want: true},
		{name: "NotExists Empty Array", cond: core.Condition{Field: "data.empty", Operator: core.OpNotExists}, want: true},
		{name: "NotExists Missing", cond: core.Condition{Field: "nowhere", Operator: core.OpNotExists}, want: true},
		{name: "NotExists Present", cond: core.Condition{Field: "risk.tier", Operator: core.OpNotExists}, want: false},
		{name: "NotExists False Bool", cond: core.Condition{Field: "deployment.internet", Operator: core.OpNotExists}, want: true},

		// unknown operator fails closed
		{name: "Unknown Operator", cond: core.Condition{Field: "risk.tier", Operator: "like", Value: "HIGH"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateCondition(tt.cond, ctx); got != tt.want {
				t.Errorf("EvaluateCondition(%+v) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestEvaluateGroup(t *testing.T) {
	ctx := core.FactContext{
		"a": "1",
		"b": "2",
	}

	condTrue := core.Condition{Field: "a", Operator: core.OpEqual, Value: "1"}
	condFalse := core.Condition{Field: "a", Operator: core.OpEqual, Value: "9"}

	tests := []struct {
		name  string
		group core.ConditionGroup
		want  bool
	}{
		{name: "All Pass", group: core.ConditionGroup{All: []core.Condition{condTrue, condTrue}}, want: true},
		{name: "All One Fails", group: core.ConditionGroup{All: []core.Condition{condTrue, condFalse}}, want: false},
		{name: "Empty All Vacuously True", group: core.ConditionGroup{All: []core.Condition{}}, want: true},
		{name: "Any One Passes", group: core.ConditionGroup{Any: []core.Condition{condFalse, condTrue}}, want: true},
		{name: "Any All Fail", group: core.ConditionGroup{Any: []core.Condition{condFalse, condFalse}}, want: false},
		{name: "Empty Any False", group: core.ConditionGroup{Any: []core.Condition{}}, want: false},
		{name: "Neither Present False", group: core.ConditionGroup{}, want: false},
		{
			name: "All Wins Over Any",
			group: core.ConditionGroup{
				All: []core.Condition{condFalse},
				Any: []core.Condition{condTrue},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateGroup(tt.group, ctx); got != tt.want {
				t.Errorf("EvaluateGroup(%+v) = %v, want %v", tt.group, got, tt.want)
			}
		})
	}
}
