package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/steph544/compliance-app-sub001/internal/api/middleware"
	"github.com/steph544/compliance-app-sub001/internal/api/presenter"
	"github.com/steph544/compliance-app-sub001/internal/service"
)

// handleExplain runs a full rule evaluation trace, either live from submitted
// answers or by replaying a prior computation's recorded fact context.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	reqID := middleware.CorrelationCtx(ctx)

	var payload service.ExplainRequest
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode explain request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	trace, err := s.assessments.ExplainTrace(ctx, payload)
	if err != nil {
		presenter.Err(w, r, err, "explain failed")
		return
	}
	trace.CorrelationID = reqID

	presenter.JSON(w, r, trace, http.StatusOK)
}
