// Package facts turns the untyped questionnaire payload into a typed
// assessment record, and assembles the flat fact context the rule engine
// evaluates against. Decoding is the single untyped boundary: everything
// downstream of it works on whitelisted, known paths.
package facts

import (
	"github.com/mitchellh/mapstructure"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

// step identifiers in the answers payload
const (
	StepUseCase    = "usecase"
	StepData       = "data"
	StepDeployment = "deployment"
	StepGovernance = "governance"
	StepModel      = "model"
)

// UseCaseFacts describes what the AI system does and for whom.
type UseCaseFacts struct {
	// ImpactLevel: low | moderate | high | critical
	ImpactLevel string `mapstructure:"impact_level"`
	// Likelihood of harm materializing: rare | possible | likely | frequent
	Likelihood string `mapstructure:"likelihood"`
	// Autonomy: assistive | supervised | autonomous
	Autonomy string `mapstructure:"autonomy"`
	// UserExposure: internal | partner | public
	UserExposure string `mapstructure:"user_exposure"`
	// DecisionScope: advisory | operational | consequential
	DecisionScope string `mapstructure:"decision_scope"`
}

// DataFacts describes the data the system touches.
type DataFacts struct {
	// Categories of processed data, e.g. pii, phi, biometric, financial
	Categories []string `mapstructure:"categories"`
	Sources    []string `mapstructure:"sources"`
	Residency  string   `mapstructure:"residency"`
}

// DeploymentFacts describes where and how the system runs.
type DeploymentFacts struct {
	// Jurisdictions the system operates in, e.g. eu, uk, us
	Jurisdictions  []string `mapstructure:"jurisdictions"`
	Vendor         string   `mapstructure:"vendor"`
	InternetFacing bool     `mapstructure:"internet_facing"`
}

// GovernanceFacts describes existing organizational maturity.
type GovernanceFacts struct {
	HasAIPolicy        bool   `mapstructure:"has_ai_policy"`
	HasIncidentProcess bool   `mapstructure:"has_incident_process"`
	HasModelInventory  bool   `mapstructure:"has_model_inventory"`
	HumanOversight     bool   `mapstructure:"human_oversight"`
	Owner              string `mapstructure:"owner"`
}

// ModelFacts describes the model itself.
type ModelFacts struct {
	// Type: foundation | finetuned | classical
	Type             string `mapstructure:"type"`
	Provider         string `mapstructure:"provider"`
	GeneratesContent bool   `mapstructure:"generates_content"`
}

// Assessment is the typed view over one answers payload.
type Assessment struct {
	UseCase    UseCaseFacts
	Data       DataFacts
	Deployment DeploymentFacts
	Governance GovernanceFacts
	Model      ModelFacts
}

// Decode extracts the typed assessment from the raw answers. Unknown steps
// and unknown questions are ignored; missing steps leave zero values. Decode
// degrades instead of failing: a step whose shape cannot be decoded at all is
// treated as absent.
func Decode(answers core.Answers) Assessment {
	var a Assessment
	decodeStep(answers[StepUseCase], &a.UseCase)
	decodeStep(answers[StepData], &a.Data)
	decodeStep(answers[StepDeployment], &a.Deployment)
	decodeStep(answers[StepGovernance], &a.Governance)
	decodeStep(answers[StepModel], &a.Model)
	return a
}

func decodeStep(raw map[string]any, dest any) {
	if raw == nil {
		return
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dest,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return
	}
	// decode errors leave dest partially filled, which is fine: the
	// evaluator treats missing facts as non-existent
	_ = dec.Decode(raw)
}

// BuildContext assembles the fact context from the typed assessment plus the
// computed risk profile. The result is the full whitelist of paths rules may
// reference; it is JSON-serializable and must not be mutated afterwards.
func BuildContext(a Assessment, profile core.RiskProfile) core.FactContext {
	return core.FactContext{
		"usecase": map[string]any{
			"impact_level":   a.UseCase.ImpactLevel,
			"likelihood":     a.UseCase.Likelihood,
			"autonomy":       a.UseCase.Autonomy,
			"user_exposure":  a.UseCase.UserExposure,
			"decision_scope": a.UseCase.DecisionScope,
		},
		"data": map[string]any{
			"categories": toAnySlice(a.Data.Categories),
			"sources":    toAnySlice(a.Data.Sources),
			"residency":  a.Data.Residency,
		},
		"deployment": map[string]any{
			"jurisdictions":   toAnySlice(a.Deployment.Jurisdictions),
			"vendor":          a.Deployment.Vendor,
			"internet_facing": a.Deployment.InternetFacing,
		},
		"governance": map[string]any{
			"has_ai_policy":        a.Governance.HasAIPolicy,
			"has_incident_process": a.Governance.HasIncidentProcess,
			"has_model_inventory":  a.Governance.HasModelInventory,
			"human_oversight":      a.Governance.HumanOversight,
			"owner":                a.Governance.Owner,
		},
		"model": map[string]any{
			"type":              a.Model.Type,
			"provider":          a.Model.Provider,
			"generates_content": a.Model.GeneratesContent,
		},
		"risk": map[string]any{
			"tier":  string(profile.Tier),
			"score": profile.Score,
		},
	}
}

// toAnySlice keeps list facts in the []any shape the evaluator sees after a
// JSON round trip, so audits replay identically to live runs.
func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
