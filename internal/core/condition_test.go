package core

import (
	"reflect"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestCondition_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Condition
	}{
		{
			name: "Explicit Syntax",
			input: `field: deployment.region
operator: eq
value: eu`,
			want: Condition{Field: "deployment.region", Operator: OpEqual, Value: "eu"},
		},
		{
			name:  "Explicit Without Operator Defaults To Eq",
			input: `{ field: model.provider, value: openai }`,
			want:  Condition{Field: "model.provider", Operator: OpEqual, Value: "openai"},
		},
		{
			name:  "Shorthand Simple Field-Value",
			input: `risk.tier: HIGH`,
			want:  Condition{Field: "risk.tier", Operator: OpEqual, Value: "HIGH"},
		},
		{
			name:  "Shorthand Operator Map",
			input: `data.categories: { contains: phi }`,
			want:  Condition{Field: "data.categories", Operator: OpContains, Value: "phi"},
		},
		{
			name:  "Shorthand In List",
			input: `deployment.jurisdiction: { in: [eu, uk] }`,
			want:  Condition{Field: "deployment.jurisdiction", Operator: OpIn, Value: []any{"eu", "uk"}},
		},
		{
			name:  "Shorthand Exists",
			input: `governance.owner: { exists: true }`,
			want:  Condition{Field: "governance.owner", Operator: OpExists, Value: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Condition
			if err := yaml.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("UnmarshalYAML() error = %v", err)
			}
			if got.Field != tt.want.Field || got.Operator != tt.want.Operator {
				t.Errorf("Unmarshal mismatch.\nGot:  %+v\nWant: %+v", got, tt.want)
			}
			if !reflect.DeepEqual(got.Value, tt.want.Value) {
				t.Errorf("Value mismatch.\nGot:  %#v\nWant: %#v", got.Value, tt.want.Value)
			}
		})
	}
}

func TestConditionGroup_UnmarshalYAML(t *testing.T) {
	input := `
all:
  - risk.tier: HIGH
  - data.categories: { contains: biometric }
`
	var got ConditionGroup
	if err := yaml.Unmarshal([]byte(input), &got); err != nil {
		t.Fatalf("UnmarshalYAML() error = %v", err)
	}
	if len(got.All) != 2 || len(got.Any) != 0 {
		t.Fatalf("expected 2 conditions in 'all', got %+v", got)
	}
	if got.All[0].Field != "risk.tier" || got.All[1].Operator != OpContains {
		t.Errorf("unexpected conditions: %+v", got.All)
	}
}

func TestConditionGroup_Validate(t *testing.T) {
	tests := []struct {
		name    string
		group   ConditionGroup
		wantErr bool
	}{
		{
			name:  "Valid All",
			group: ConditionGroup{All: []Condition{{Field: "a", Operator: OpEqual}}},
		},
		{
			name:    "Invalid Operator",
			group:   ConditionGroup{All: []Condition{{Field: "a", Operator: "like"}}},
			wantErr: true,
		},
		{
			name:    "Missing Field",
			group:   ConditionGroup{Any: []Condition{{Operator: OpEqual}}},
			wantErr: true,
		},
		{
			name: "Both All And Any Rejected",
			group: ConditionGroup{
				All: []Condition{{Field: "a", Operator: OpEqual}},
				Any: []Condition{{Field: "b", Operator: OpEqual}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.group.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactContext_Resolve(t *testing.T) {
	ctx := FactContext{
		"risk": map[string]any{"tier": "HIGH"},
		"data": map[string]any{
			"categories": []any{"pii", "phi"},
			"residency":  nil,
		},
		"flat": 42,
	}

	tests := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{name: "Nested Path", path: "risk.tier", want: "HIGH", wantOK: true},
		{name: "Top Level", path: "flat", want: 42, wantOK: true},
		{name: "Array Value", path: "data.categories", want: []any{"pii", "phi"}, wantOK: true},
		{name: "Missing Leaf", path: "risk.score", wantOK: false},
		{name: "Missing Intermediate", path: "nothing.here.at.all", wantOK: false},
		{name: "Nil Intermediate", path: "data.residency.region", wantOK: false},
		{name: "Scalar Intermediate", path: "flat.deeper", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ctx.Resolve(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDesignation_Outranks(t *testing.T) {
	if !DesignationRequired.Outranks(DesignationRecommended) {
		t.Error("REQUIRED should outrank RECOMMENDED")
	}
	if !DesignationRecommended.Outranks(DesignationOptional) {
		t.Error("RECOMMENDED should outrank OPTIONAL")
	}
	if DesignationOptional.Outranks(DesignationOptional) {
		t.Error("a designation must not outrank itself")
	}
	if Designation("BOGUS").Outranks(DesignationOptional) {
		t.Error("unknown designations must rank below OPTIONAL")
	}
}
