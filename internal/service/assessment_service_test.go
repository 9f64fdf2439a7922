package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/steph544/compliance-app-sub001/internal/audit"
	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/engine"
	"github.com/steph544/compliance-app-sub001/internal/store"
)

func testService(auditor core.Auditor) *AssessmentService {
	rules := []core.Rule{
		{
			RuleID: "R-HIGH-LOG", Name: "High risk requires logging", Priority: 10,
			Conditions: core.ConditionGroup{All: []core.Condition{
				{Field: "risk.tier", Operator: core.OpIn, Value: []any{"HIGH", "REGULATED"}},
			}},
			Actions: core.RuleActions{
				SelectControls: []string{"CTL-LOG"},
				Designation:    core.DesignationRequired,
				Explanation:    "high risk systems must log decisions",
			},
		},
		{
			RuleID: "R-PHI", Name: "Health data handling", Priority: 20,
			Conditions: core.ConditionGroup{All: []core.Condition{
				{Field: "data.categories", Operator: core.OpContains, Value: "phi"},
			}},
			Actions: core.RuleActions{
				SelectControls: []string{"CTL-DPIA"},
				Designation:    core.DesignationRequired,
			},
		},
	}
	controls := map[string]core.Control{
		"CTL-LOG": {
			ControlID: "CTL-LOG", Name: "Model decision logging",
			FrameworkRefs: []string{"NIST-AI-RMF:GOVERN-1.2", "ISO-42001:8.3"},
			VendorGuidance: map[string]core.VendorGuidance{
				"aws": {Service: "CloudWatch Logs"},
			},
		},
		"CTL-DPIA": {
			ControlID: "CTL-DPIA", Name: "Data protection impact assessment",
			FrameworkRefs: []string{"GDPR:35"},
		},
	}

	return NewAssessmentService(
		engine.NewManager(rules, controls),
		auditor,
		store.NewInMemoryResultStore(),
		"",
	)
}

func highRiskAnswers() core.Answers {
	return core.Answers{
		"usecase": {
			"impact_level":  "high",   // +6
			"likelihood":    "likely", // +4
			"user_exposure": "public", // +2
		},
		"data": {
			"categories": []any{"phi"}, // +2 => score 15, HIGH
		},
		"deployment": {
			"vendor": "aws",
		},
	}
}

func TestAssessmentService_Compute(t *testing.T) {
	auditor := audit.NewInMemoryAuditor()
	svc := testService(auditor)
	ctx := context.Background()

	result, err := svc.Compute(ctx, "corr-1", ComputeRequest{
		Subject: "org-1",
		Answers: highRiskAnswers(),
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if result.RiskTier != core.TierHigh || result.RiskScore != 15 {
		t.Errorf("risk = %s/%v, want HIGH/15", result.RiskTier, result.RiskScore)
	}
	if len(result.ControlSelections) != 2 {
		t.Fatalf("expected 2 selections, got %+v", result.ControlSelections)
	}
	// CTL-LOG has 2 refs, CTL-DPIA has 1
	if len(result.FrameworkFindings) != 3 {
		t.Errorf("expected 3 findings, got %d", len(result.FrameworkFindings))
	}
	for _, f := range result.FrameworkFindings {
		if f.ControlID == "CTL-LOG" && f.ImplementationService != "CloudWatch Logs" {
			t.Errorf("vendor guidance from answers not applied: %+v", f)
		}
	}
	if result.MonitoringPlan == nil || result.MonitoringPlan.ReviewCadence != "quarterly" {
		t.Errorf("monitoring plan for HIGH should be quarterly: %+v", result.MonitoringPlan)
	}

	// persisted and retrievable
	stored, err := svc.GetResult(ctx, "org-1")
	if err != nil {
		t.Fatalf("GetResult() error = %v", err)
	}
	if stored.RiskTier != result.RiskTier {
		t.Errorf("stored result differs from returned one")
	}

	// audited with fingerprint and context
	entries, err := auditor.GetRecent(10)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %v (%v)", entries, err)
	}
	if entries[0].AnswersFingerprint == "" || entries[0].Context == nil {
		t.Errorf("audit entry incomplete: %+v", entries[0])
	}
}

func TestAssessmentService_RecomputeIsIdempotent(t *testing.T) {
	svc := testService(nil)
	ctx := context.Background()
	req := ComputeRequest{Subject: "org-1", Answers: highRiskAnswers()}

	first, err := svc.Compute(ctx, "c1", req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Compute(ctx, "c2", req)
	if err != nil {
		t.Fatal(err)
	}

	// everything but the timestamp must be deep-equal
	first.ComputedAt = second.ComputedAt
	if !reflect.DeepEqual(first, second) {
		t.Errorf("recompute changed the result:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAssessmentService_ComputeRequiresSubject(t *testing.T) {
	svc := testService(nil)
	_, err := svc.Compute(context.Background(), "c1", ComputeRequest{Answers: core.Answers{}})
	if err == nil {
		t.Fatal("expected error for missing subject")
	}
}

func TestAssessmentService_GetResultMissing(t *testing.T) {
	svc := testService(nil)
	_, err := svc.GetResult(context.Background(), "nobody")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 404 {
		t.Errorf("expected 404 HTTPError, got %v", err)
	}
}

func TestAssessmentService_ExplainReplay(t *testing.T) {
	auditor := audit.NewInMemoryAuditor()
	svc := testService(auditor)
	ctx := context.Background()

	if _, err := svc.Compute(ctx, "corr-42", ComputeRequest{
		Subject: "org-1",
		Answers: highRiskAnswers(),
	}); err != nil {
		t.Fatal(err)
	}

	trace, err := svc.ExplainTrace(ctx, ExplainRequest{ReplayID: "corr-42"})
	if err != nil {
		t.Fatalf("ExplainTrace() error = %v", err)
	}
	if len(trace.RuleResults) != 2 {
		t.Errorf("expected a result for every rule, got %d", len(trace.RuleResults))
	}
	if len(trace.Selections) != 2 {
		t.Errorf("replayed trace should reproduce the selections, got %+v", trace.Selections)
	}
}

func TestAssessmentService_ExplainLive(t *testing.T) {
	svc := testService(nil)

	trace, err := svc.ExplainTrace(context.Background(), ExplainRequest{
		Answers: core.Answers{"usecase": {"impact_level": "low"}},
	})
	if err != nil {
		t.Fatalf("ExplainTrace() error = %v", err)
	}
	for _, rr := range trace.RuleResults {
		if rr.Matched {
			t.Errorf("low risk answers should not match rule %s", rr.RuleID)
		}
	}
}

func TestAssessmentService_ExplainRequiresInput(t *testing.T) {
	svc := testService(nil)
	if _, err := svc.ExplainTrace(context.Background(), ExplainRequest{}); err == nil {
		t.Fatal("expected error without answers or replay id")
	}
}
