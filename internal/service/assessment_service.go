package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/steph544/compliance-app-sub001/internal/audit"
	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/engine"
	"github.com/steph544/compliance-app-sub001/internal/facts"
	"github.com/steph544/compliance-app-sub001/internal/mapper"
	"github.com/steph544/compliance-app-sub001/internal/scoring"
)

// AssessmentService runs the three-stage decision core end to end and
// persists the resulting bundle. The core itself is pure; the service owns
// the impure edges: catalog snapshots, persistence, auditing.
type AssessmentService struct {
	catalogManager *engine.CatalogManager
	auditor        core.Auditor
	results        core.ResultStore

	// defaultVendor is the fallback for guidance resolution when neither the
	// request nor the answers name a vendor.
	defaultVendor string
}

func NewAssessmentService(
	catalogManager *engine.CatalogManager,
	auditor core.Auditor,
	results core.ResultStore,
	defaultVendor string,
) *AssessmentService {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	return &AssessmentService{
		catalogManager: catalogManager,
		auditor:        auditor,
		results:        results,
		defaultVendor:  defaultVendor,
	}
}

// Compute runs answers through scorer, rule engine and mapper, persists the
// bundle wholesale and returns it. Identical inputs always produce identical
// outputs, so recomputing is safe to invoke repeatedly.
func (s *AssessmentService) Compute(ctx context.Context, correlationID string, req ComputeRequest) (*core.ComputedResult, error) {
	logger := log.Ctx(ctx)

	if req.Subject == "" {
		return nil, httpError(http.StatusBadRequest, fmt.Errorf("subject is required"))
	}

	entry := core.AuditEntry{
		ID:                 correlationID,
		Time:               time.Now(),
		Action:             "assessment.compute",
		Subject:            req.Subject,
		AnswersFingerprint: audit.FingerprintAnswers(req.Answers),
	}
	defer func() {
		if err := s.auditor.Log(entry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log")
		}
	}()

	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("subject", req.Subject)
	})

	assessment := facts.Decode(req.Answers)
	profile := scoring.Score(assessment)
	factContext := facts.BuildContext(assessment, profile)
	entry.Context = factContext
	entry.RiskTier = profile.Tier
	entry.RiskScore = profile.Score

	// one consistent catalog generation for the whole run
	eng := s.catalogManager.GetEngine()
	controls := s.catalogManager.GetControls()

	selections := eng.Resolve(factContext)
	entry.SelectionCount = len(selections)

	vendor := s.resolveVendor(req, assessment)
	entry.Vendor = vendor

	resolved := mapper.ResolveVendorGuidance(controls, vendor)
	findings := mapper.Map(selections, resolved)
	entry.FindingCount = len(findings)

	result := core.ComputedResult{
		Subject:           req.Subject,
		RiskTier:          profile.Tier,
		RiskScore:         profile.Score,
		RiskDrivers:       profile.Drivers,
		ControlSelections: selections,
		FrameworkFindings: findings,
		MonitoringPlan:    buildMonitoringPlan(profile.Tier, selections),
		ComputedAt:        time.Now(),
	}

	if err := s.results.Upsert(ctx, result); err != nil {
		entry.Error = "persisting result failed"
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("persisting computed result: %w", err))
	}

	logger.Info().
		Str("tier", string(profile.Tier)).
		Float64("score", profile.Score).
		Int("selections", len(selections)).
		Int("findings", len(findings)).
		Msg("assessment computed")

	return &result, nil
}

// GetResult returns the last persisted bundle for the subject.
func (s *AssessmentService) GetResult(ctx context.Context, subject string) (*core.ComputedResult, error) {
	result, ok, err := s.results.Get(ctx, subject)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("reading computed result: %w", err))
	}
	if !ok {
		return nil, httpError(http.StatusNotFound,
			fmt.Errorf("no computed result for subject '%s'", subject))
	}
	return result, nil
}

// ListSubjects returns every subject with a persisted result.
func (s *AssessmentService) ListSubjects(ctx context.Context) ([]string, error) {
	subjects, err := s.results.ListSubjects(ctx)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("listing subjects: %w", err))
	}
	return subjects, nil
}

// ExplainTrace runs a full rule trace, either live from answers or by
// replaying the fact context recorded in a prior computation's audit entry.
func (s *AssessmentService) ExplainTrace(ctx context.Context, req ExplainRequest) (*core.EvaluationTrace, error) {
	logger := log.Ctx(ctx)

	var factContext core.FactContext
	if req.ReplayID != "" {
		logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("replay_id", req.ReplayID)
		})

		entries, err := s.auditor.Find(func(entry core.AuditEntry) bool {
			return entry.ID == req.ReplayID
		}, 1)
		if err != nil {
			return nil, httpError(http.StatusInternalServerError,
				fmt.Errorf("failed to retrieve audit log for replay: %w", err))
		}
		if len(entries) == 0 {
			return nil, httpError(http.StatusNotFound,
				fmt.Errorf("audit log entry with ID '%s' not found for replay", req.ReplayID))
		}
		if entries[0].Context == nil {
			return nil, httpError(http.StatusBadRequest,
				fmt.Errorf("no fact context found in audit log for replay"))
		}
		factContext = entries[0].Context

		logger.Debug().Str("subject", entries[0].Subject).Msg("replaying audit log entry")
	} else {
		if len(req.Answers) == 0 {
			return nil, httpError(http.StatusBadRequest,
				fmt.Errorf("answers are required when not replaying an audit log"))
		}
		assessment := facts.Decode(req.Answers)
		profile := scoring.Score(assessment)
		factContext = facts.BuildContext(assessment, profile)
	}

	trace := s.catalogManager.GetEngine().Trace(factContext)
	return &trace, nil
}

// resolveVendor picks the vendor for guidance resolution: explicit request
// value first, then the answers, then the configured default.
func (s *AssessmentService) resolveVendor(req ComputeRequest, a facts.Assessment) string {
	if req.Vendor != "" {
		return req.Vendor
	}
	if a.Deployment.Vendor != "" {
		return a.Deployment.Vendor
	}
	return s.defaultVendor
}

var reviewCadence = map[core.RiskTier]string{
	core.TierLow:       "annual",
	core.TierMedium:    "semi-annual",
	core.TierHigh:      "quarterly",
	core.TierRegulated: "monthly",
}

// buildMonitoringPlan derives ongoing oversight from the tier and the kinds
// of controls selected.
func buildMonitoringPlan(tier core.RiskTier, selections []core.ControlSelection) *core.MonitoringPlan {
	cadence, ok := reviewCadence[tier]
	if !ok {
		cadence = "annual"
	}

	activities := []string{
		"Review assessment answers for drift and recompute",
	}
	required := 0
	for _, sel := range selections {
		if sel.Designation == core.DesignationRequired {
			required++
		}
	}
	if required > 0 {
		activities = append(activities,
			fmt.Sprintf("Verify evidence for %d required control(s)", required))
	}
	if tier == core.TierHigh || tier == core.TierRegulated {
		activities = append(activities,
			"Review model incidents and near-misses since last assessment",
			"Confirm human oversight procedures are still operating")
	}
	if tier == core.TierRegulated {
		activities = append(activities,
			"Check for regulatory changes in the operating jurisdictions")
	}

	return &core.MonitoringPlan{
		ReviewCadence: cadence,
		Activities:    activities,
	}
}
