package facts

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

func TestDecode(t *testing.T) {
	answers := core.Answers{
		"usecase": {
			"impact_level":  "high",
			"likelihood":    "likely",
			"autonomy":      "autonomous",
			"user_exposure": "public",
		},
		"data": {
			"categories": []any{"pii", "phi"},
			"residency":  "eu",
		},
		"deployment": {
			"jurisdictions":   []any{"eu"},
			"vendor":          "aws",
			"internet_facing": true,
		},
		"governance": {
			"has_ai_policy":  "true", // weakly typed on purpose
			"human_oversight": true,
		},
		"unknown_step": {
			"whatever": 1,
		},
	}

	a := Decode(answers)

	if a.UseCase.ImpactLevel != "high" || a.UseCase.UserExposure != "public" {
		t.Errorf("usecase not decoded: %+v", a.UseCase)
	}
	if !reflect.DeepEqual(a.Data.Categories, []string{"pii", "phi"}) {
		t.Errorf("data categories not decoded: %+v", a.Data)
	}
	if a.Deployment.Vendor != "aws" || !a.Deployment.InternetFacing {
		t.Errorf("deployment not decoded: %+v", a.Deployment)
	}
	if !a.Governance.HasAIPolicy || !a.Governance.HumanOversight {
		t.Errorf("governance not decoded (weak typing expected): %+v", a.Governance)
	}
}

func TestDecode_DegradesOnGarbage(t *testing.T) {
	answers := core.Answers{
		"usecase": {
			"impact_level": []any{"not", "a", "string"},
		},
	}

	// must not panic; bad fields stay zero
	a := Decode(answers)
	if a.UseCase.Likelihood != "" {
		t.Errorf("unexpected decode result: %+v", a.UseCase)
	}
}

func TestBuildContext(t *testing.T) {
	a := Assessment{
		UseCase: UseCaseFacts{ImpactLevel: "high"},
		Data:    DataFacts{Categories: []string{"phi"}},
	}
	profile := core.RiskProfile{Tier: core.TierHigh, Score: 14}

	ctx := BuildContext(a, profile)

	tier, ok := ctx.Resolve("risk.tier")
	if !ok || tier != "HIGH" {
		t.Errorf("risk.tier = %v (%v)", tier, ok)
	}
	impact, ok := ctx.Resolve("usecase.impact_level")
	if !ok || impact != "high" {
		t.Errorf("usecase.impact_level = %v (%v)", impact, ok)
	}
	cats, ok := ctx.Resolve("data.categories")
	if !ok || !reflect.DeepEqual(cats, []any{"phi"}) {
		t.Errorf("data.categories = %#v (%v)", cats, ok)
	}

	// the context must survive a JSON round trip for auditability
	if _, err := json.Marshal(ctx); err != nil {
		t.Errorf("context not JSON-serializable: %v", err)
	}
}
