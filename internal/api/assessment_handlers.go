package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/steph544/compliance-app-sub001/internal/api/middleware"
	"github.com/steph544/compliance-app-sub001/internal/api/presenter"
	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/service"
)

type ComputePayload struct {
	// Answers is the raw questionnaire payload, keyed by assessment step.
	Answers core.Answers `json:"answers"`

	// Vendor optionally overrides the vendor preference for guidance resolution.
	Vendor string `json:"vendor,omitempty"`
}

// handleCompute runs a full assessment computation for a subject and persists
// the resulting bundle.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	reqID := middleware.CorrelationCtx(ctx)

	subject := r.PathValue("subject")
	if subject == "" {
		presenter.Error(w, r, "missing subject", http.StatusBadRequest)
		return
	}

	var payload ComputePayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode compute request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := s.assessments.Compute(ctx, reqID, service.ComputeRequest{
		Subject: subject,
		Answers: payload.Answers,
		Vendor:  payload.Vendor,
	})
	if err != nil {
		presenter.Err(w, r, err, "assessment computation failed")
		return
	}

	presenter.JSON(w, r, result, http.StatusOK)
}

// handleGetAssessment returns the last computed bundle for a subject.
func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	subject := r.PathValue("subject")
	if subject == "" {
		presenter.Error(w, r, "missing subject", http.StatusBadRequest)
		return
	}

	result, err := s.assessments.GetResult(r.Context(), subject)
	if err != nil {
		presenter.Err(w, r, err, "failed to retrieve assessment")
		return
	}

	presenter.JSON(w, r, result, http.StatusOK)
}

type ListAssessmentsResponse struct {
	Subjects []string `json:"subjects"`
}

// handleListAssessments returns every subject with a computed result.
func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.assessments.ListSubjects(r.Context())
	if err != nil {
		presenter.Err(w, r, err, "failed to list assessments")
		return
	}

	presenter.JSON(w, r, ListAssessmentsResponse{Subjects: subjects}, http.StatusOK)
}
