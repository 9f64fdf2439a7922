// Package scoring computes the numeric risk score and discrete tier from
// weighted, answer-derived factors. It is a pure function of the answers and
// feeds the rule engine: the resulting tier becomes a fact.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/facts"
)

// Score bounds. Factor sums outside this range are clamped, never rejected.
const (
	MinScore = 1
	MaxScore = 25
)

// Tier thresholds on the clamped score.
// LOW < 7, MEDIUM 7-12, HIGH 13-18, REGULATED >= 19.
const (
	mediumThreshold    = 7
	highThreshold      = 13
	regulatedThreshold = 19
)

var impactWeights = map[string]float64{
	"low":      0,
	"moderate": 3,
	"high":     6,
	"critical": 9,
}

var likelihoodWeights = map[string]float64{
	"rare":     0,
	"possible": 2,
	"likely":   4,
	"frequent": 6,
}

var autonomyWeights = map[string]float64{
	"assistive":  0,
	"supervised": 1,
	"autonomous": 3,
}

var exposureWeights = map[string]float64{
	"internal": 0,
	"partner":  1,
	"public":   2,
}

// regulatedDataCategories are the data categories that, combined with a
// regulated jurisdiction, force the REGULATED tier regardless of score.
var regulatedDataCategories = map[string]struct{}{
	"phi":       {},
	"biometric": {},
	"financial": {},
	"children":  {},
}

// regulatedJurisdictions trigger the tier override and the jurisdiction factor.
var regulatedJurisdictions = map[string]struct{}{
	"eu": {},
	"uk": {},
}

// ScoreAnswers scores a raw answers payload: answers in, risk profile out.
func ScoreAnswers(answers core.Answers) core.RiskProfile {
	return Score(facts.Decode(answers))
}

// Score computes the risk profile from the typed assessment. Each factor
// contributes a signed delta plus an explanation; the clamped sum is the
// score and the threshold table (plus the regulated override) picks the tier.
func Score(a facts.Assessment) core.RiskProfile {
	var drivers []core.RiskDriver

	add := func(factor string, contribution float64, explanation string) {
		if contribution == 0 {
			return
		}
		drivers = append(drivers, core.RiskDriver{
			Factor:       factor,
			Contribution: contribution,
			Explanation:  explanation,
		})
	}

	if w, ok := impactWeights[a.UseCase.ImpactLevel]; ok {
		add("impact", w, fmt.Sprintf("impact level is '%s'", a.UseCase.ImpactLevel))
	}
	if w, ok := likelihoodWeights[a.UseCase.Likelihood]; ok {
		add("likelihood", w, fmt.Sprintf("harm likelihood is '%s'", a.UseCase.Likelihood))
	}
	if w, ok := autonomyWeights[a.UseCase.Autonomy]; ok {
		add("autonomy", w, fmt.Sprintf("system operates at '%s' autonomy", a.UseCase.Autonomy))
	}
	if w, ok := exposureWeights[a.UseCase.UserExposure]; ok {
		add("user_exposure", w, fmt.Sprintf("users are '%s'", a.UseCase.UserExposure))
	}

	if hasRegulatedData(a.Data.Categories) {
		add("data_sensitivity", 2, "regulated data categories are processed")
	} else if containsCategory(a.Data.Categories, "pii") {
		add("data_sensitivity", 1, "personal data is processed")
	}

	if hasRegulatedJurisdiction(a.Deployment.Jurisdictions) {
		add("jurisdiction", 1, "system operates in a regulated jurisdiction")
	}

	// governance maturity reduces the score
	if a.Governance.HasAIPolicy {
		add("governance_policy", -1, "an AI usage policy is in place")
	}
	if a.Governance.HumanOversight {
		add("governance_oversight", -1, "human oversight of decisions is in place")
	}
	if a.Governance.HasIncidentProcess {
		add("governance_incidents", -1, "an AI incident response process is in place")
	}

	sum := float64(MinScore)
	for _, d := range drivers {
		sum += d.Contribution
	}
	score := clamp(sum, MinScore, MaxScore)

	tier := tierForScore(score)
	if hasRegulatedData(a.Data.Categories) && hasRegulatedJurisdiction(a.Deployment.Jurisdictions) {
		// the override beats the threshold table
		tier = core.TierRegulated
	}

	// descending absolute contribution for presentation; stable so equal
	// weights keep factor order
	sort.SliceStable(drivers, func(i, j int) bool {
		return math.Abs(drivers[i].Contribution) > math.Abs(drivers[j].Contribution)
	})

	return core.RiskProfile{
		Tier:    tier,
		Score:   score,
		Drivers: drivers,
	}
}

func tierForScore(score float64) core.RiskTier {
	switch {
	case score >= regulatedThreshold:
		return core.TierRegulated
	case score >= highThreshold:
		return core.TierHigh
	case score >= mediumThreshold:
		return core.TierMedium
	default:
		return core.TierLow
	}
}

func hasRegulatedData(categories []string) bool {
	for _, c := range categories {
		if _, ok := regulatedDataCategories[c]; ok {
			return true
		}
	}
	return false
}

func hasRegulatedJurisdiction(jurisdictions []string) bool {
	for _, j := range jurisdictions {
		if _, ok := regulatedJurisdictions[j]; ok {
			return true
		}
	}
	return false
}

func containsCategory(categories []string, want string) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
