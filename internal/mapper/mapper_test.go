package mapper

import (
	"testing"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

func catalogFixture() map[string]core.Control {
	return map[string]core.Control{
		"CTL-LOG": {
			ControlID:           "CTL-LOG",
			Name:                "Model decision logging",
			Description:         "Log all model decisions with inputs and outputs",
			ImplementationSteps: "Enable structured decision logs",
			ImplementationLevel: "system",
			Type:                "technical",
			FrameworkRefs:       []string{"NIST-AI-RMF:GOVERN-1.2", "NIST-AI-RMF:MEASURE-2.5", "ISO-42001:8.3"},
			EvidenceArtifacts:   []string{"log retention config", "sample decision log"},
			VendorGuidance: map[string]core.VendorGuidance{
				"aws": {
					Service:     "CloudWatch Logs",
					Description: "Ship decision logs to CloudWatch Logs",
					Steps:       "Create a log group and attach the agent",
				},
			},
		},
		"CTL-NOREF": {
			ControlID: "CTL-NOREF",
			Name:      "Orphan control",
			// no framework refs on purpose
		},
	}
}

func TestMap_FanOut(t *testing.T) {
	selections := []core.ControlSelection{
		{
			ControlID:   "CTL-LOG",
			Designation: core.DesignationRequired,
			Reasoning:   []string{"high risk tier requires decision logging"},
			RuleIDs:     []string{"R1"},
		},
	}

	findings := Map(selections, catalogFixture())
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings (one per framework ref), got %d", len(findings))
	}

	refs := map[string]bool{}
	for _, f := range findings {
		refs[f.FrameworkRef] = true
		if f.Designation != core.DesignationRequired {
			t.Errorf("finding %s designation = %s, want REQUIRED", f.FrameworkRef, f.Designation)
		}
		if f.Finding != "high risk tier requires decision logging" {
			t.Errorf("finding text not taken from first reasoning entry: %q", f.Finding)
		}
		if f.ControlName != "Model decision logging" || f.ControlType != "technical" {
			t.Errorf("catalog fields not copied: %+v", f)
		}
		if len(f.Evidence) != 2 {
			t.Errorf("evidence not copied: %+v", f.Evidence)
		}
	}
	if len(refs) != 3 {
		t.Errorf("expected 3 distinct framework refs, got %v", refs)
	}
}

func TestMap_MissingControlDropped(t *testing.T) {
	selections := []core.ControlSelection{
		{ControlID: "CTL-RETIRED", Designation: core.DesignationRequired},
		{ControlID: "CTL-LOG", Designation: core.DesignationOptional, Reasoning: []string{"r"}},
	}

	findings := Map(selections, catalogFixture())
	for _, f := range findings {
		if f.ControlID == "CTL-RETIRED" {
			t.Errorf("selection without catalog entry must yield zero findings")
		}
	}
	if len(findings) != 3 {
		t.Errorf("surviving selection should still fan out, got %d findings", len(findings))
	}
}

func TestMap_ZeroRefsZeroFindings(t *testing.T) {
	selections := []core.ControlSelection{
		{ControlID: "CTL-NOREF", Designation: core.DesignationRequired},
	}
	if findings := Map(selections, catalogFixture()); len(findings) != 0 {
		t.Errorf("control without framework refs must yield no findings, got %d", len(findings))
	}
}

func TestMap_FindingTextFallback(t *testing.T) {
	selections := []core.ControlSelection{
		{ControlID: "CTL-LOG", Designation: core.DesignationRequired},
	}
	findings := Map(selections, catalogFixture())
	if len(findings) == 0 {
		t.Fatal("expected findings")
	}
	want := "Control required: Model decision logging"
	if findings[0].Finding != want {
		t.Errorf("fallback finding text = %q, want %q", findings[0].Finding, want)
	}
}

func TestResolveVendorGuidance(t *testing.T) {
	controls := catalogFixture()
	resolved := ResolveVendorGuidance(controls, "aws")

	got := resolved["CTL-LOG"]
	if got.ImplementationVendor != "aws" || got.ImplementationService != "CloudWatch Logs" {
		t.Errorf("vendor fields not set: %+v", got)
	}
	if got.Description != "Ship decision logs to CloudWatch Logs" {
		t.Errorf("description not substituted: %q", got.Description)
	}
	if got.ImplementationSteps != "Create a log group and attach the agent" {
		t.Errorf("steps not substituted: %q", got.ImplementationSteps)
	}

	// the original catalog must stay untouched
	if controls["CTL-LOG"].ImplementationVendor != "" {
		t.Errorf("original catalog mutated: %+v", controls["CTL-LOG"])
	}

	// a control without guidance for the vendor is copied as-is
	if resolved["CTL-NOREF"].ImplementationVendor != "" {
		t.Errorf("control without vendor guidance should be untouched")
	}

	// unknown vendor leaves everything generic
	plain := ResolveVendorGuidance(controls, "oraclecloud")
	if plain["CTL-LOG"].ImplementationVendor != "" {
		t.Errorf("unknown vendor must not set vendor fields")
	}
}

func TestMap_VendorFieldsCarriedThrough(t *testing.T) {
	resolved := ResolveVendorGuidance(catalogFixture(), "aws")
	selections := []core.ControlSelection{
		{ControlID: "CTL-LOG", Designation: core.DesignationRequired, Reasoning: []string{"r"}},
	}

	findings := Map(selections, resolved)
	if len(findings) == 0 {
		t.Fatal("expected findings")
	}
	if findings[0].ImplementationVendor != "aws" || findings[0].ImplementationService != "CloudWatch Logs" {
		t.Errorf("vendor fields not carried into findings: %+v", findings[0])
	}
}
