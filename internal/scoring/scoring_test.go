package scoring

import (
	"math"
	"testing"

	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/facts"
)

func TestScore_Tiers(t *testing.T) {
	tests := []struct {
		name       string
		assessment facts.Assessment
		wantScore  float64
		wantTier   core.RiskTier
	}{
		{
			name:       "Empty Assessment Is Lowest Tier",
			assessment: facts.Assessment{},
			wantScore:  1,
			wantTier:   core.TierLow,
		},
		{
			name: "Score Of Ten Is Medium",
			assessment: facts.Assessment{
				UseCase: facts.UseCaseFacts{
					ImpactLevel: "high",       // +6
					Likelihood:  "possible",   // +2
					Autonomy:    "supervised", // +1
				},
			},
			wantScore: 10,
			wantTier:  core.TierMedium,
		},
		{
			name: "Score Of Twenty Is Regulated",
			assessment: facts.Assessment{
				UseCase: facts.UseCaseFacts{
					ImpactLevel:  "critical",   // +9
					Likelihood:   "frequent",   // +6
					Autonomy:     "autonomous", // +3
					UserExposure: "partner",    // +1
				},
			},
			wantScore: 20,
			wantTier:  core.TierRegulated,
		},
		{
			name: "High Tier",
			assessment: facts.Assessment{
				UseCase: facts.UseCaseFacts{
					ImpactLevel:  "high",   // +6
					Likelihood:   "likely", // +4
					UserExposure: "public", // +2
				},
			},
			wantScore: 13,
			wantTier:  core.TierHigh,
		},
		{
			name: "Governance Maturity Lowers Score",
			assessment: facts.Assessment{
				UseCase: facts.UseCaseFacts{
					ImpactLevel: "high",     // +6
					Likelihood:  "possible", // +2
				},
				Governance: facts.GovernanceFacts{
					HasAIPolicy:        true, // -1
					HumanOversight:     true, // -1
					HasIncidentProcess: true, // -1
				},
			},
			wantScore: 6,
			wantTier:  core.TierLow,
		},
		{
			name: "Score Never Falls Below Minimum",
			assessment: facts.Assessment{
				Governance: facts.GovernanceFacts{
					HasAIPolicy:        true,
					HumanOversight:     true,
					HasIncidentProcess: true,
				},
			},
			wantScore: MinScore,
			wantTier:  core.TierLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.assessment)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Tier != tt.wantTier {
				t.Errorf("Tier = %s, want %s", got.Tier, tt.wantTier)
			}
		})
	}
}

func TestScore_RegulatedOverride(t *testing.T) {
	// numerically MEDIUM, but regulated data in a regulated jurisdiction
	// forces the highest tier
	a := facts.Assessment{
		UseCase: facts.UseCaseFacts{
			ImpactLevel: "moderate", // +3
			Likelihood:  "possible", // +2
		},
		Data: facts.DataFacts{
			Categories: []string{"phi"}, // +2
		},
		Deployment: facts.DeploymentFacts{
			Jurisdictions: []string{"eu"}, // +1
		},
	}

	got := Score(a)
	if got.Score != 9 {
		t.Errorf("Score = %v, want 9", got.Score)
	}
	if tierForScore(got.Score) != core.TierMedium {
		t.Fatalf("precondition failed: raw score should map to MEDIUM")
	}
	if got.Tier != core.TierRegulated {
		t.Errorf("Tier = %s, want REGULATED (override)", got.Tier)
	}
}

func TestScore_NoOverrideWithoutJurisdiction(t *testing.T) {
	a := facts.Assessment{
		Data: facts.DataFacts{
			Categories: []string{"biometric"},
		},
		Deployment: facts.DeploymentFacts{
			Jurisdictions: []string{"us"},
		},
	}

	got := Score(a)
	if got.Tier == core.TierRegulated {
		t.Errorf("override must require a regulated jurisdiction, got %s", got.Tier)
	}
}

func TestScore_DriversSortedByAbsoluteContribution(t *testing.T) {
	a := facts.Assessment{
		UseCase: facts.UseCaseFacts{
			ImpactLevel: "critical", // +9
			Autonomy:    "supervised",
		},
		Governance: facts.GovernanceFacts{
			HasAIPolicy: true, // -1
		},
	}

	got := Score(a)
	if len(got.Drivers) == 0 {
		t.Fatal("expected drivers")
	}
	for i := 1; i < len(got.Drivers); i++ {
		prev := math.Abs(got.Drivers[i-1].Contribution)
		cur := math.Abs(got.Drivers[i].Contribution)
		if cur > prev {
			t.Errorf("drivers not sorted by descending absolute contribution: %+v", got.Drivers)
		}
	}
	if got.Drivers[0].Factor != "impact" {
		t.Errorf("strongest driver should be impact, got %s", got.Drivers[0].Factor)
	}
	for _, d := range got.Drivers {
		if d.Explanation == "" {
			t.Errorf("driver %s missing explanation", d.Factor)
		}
	}
}

func TestScoreAnswers(t *testing.T) {
	answers := core.Answers{
		"usecase": {
			"impact_level": "high",
			"likelihood":   "possible",
			"autonomy":     "supervised",
		},
	}

	got := ScoreAnswers(answers)
	if got.Score != 10 || got.Tier != core.TierMedium {
		t.Errorf("ScoreAnswers = %v/%s, want 10/MEDIUM", got.Score, got.Tier)
	}

	// identical input, identical output
	again := ScoreAnswers(answers)
	if again.Score != got.Score || again.Tier != got.Tier {
		t.Errorf("ScoreAnswers is not deterministic")
	}
}
