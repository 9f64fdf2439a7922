package api

import (
	"net/http"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"

	"github.com/steph544/compliance-app-sub001/internal/api/presenter"
	"github.com/steph544/compliance-app-sub001/internal/core"
)

// handleAdminAudit processes requests to retrieve audit log entries.
// Entries can be narrowed by correlation_id and subject, or by an arbitrary
// filter expression evaluated against each entry.
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	// filters
	q := r.URL.Query()
	limitStr := q.Get("limit")

	filterCorrelationID := q.Get("correlation_id")
	filterSubject := q.Get("subject")
	filterExpr := q.Get("filter")

	limit := 50
	if limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err != nil {
			logger.Warn().Err(err).Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		} else {
			limit = v
		}
	}

	var program *vm.Program
	if filterExpr != "" {
		p, err := expr.Compile(filterExpr, expr.Env(core.AuditEntry{}), expr.AsBool())
		if err != nil {
			logger.Warn().Err(err).Str("filter", filterExpr).Msg("invalid filter expression")
			presenter.Error(w, r, "invalid filter expression: "+err.Error(), http.StatusBadRequest)
			return
		}
		program = p
	}

	var entries []core.AuditEntry
	var err error

	if filterCorrelationID != "" || filterSubject != "" || program != nil {
		logger.Info().Msgf("applying audit log filters")
		entries, err = s.auditor.Find(func(entry core.AuditEntry) bool {
			if filterCorrelationID != "" && entry.ID != filterCorrelationID {
				return false
			}
			if filterSubject != "" && entry.Subject != filterSubject {
				return false
			}
			if program != nil {
				out, runErr := expr.Run(program, entry)
				if runErr != nil {
					return false
				}
				matched, _ := out.(bool)
				return matched
			}
			return true
		}, limit)
	} else {
		log.Debug().Msgf("retrieving recent audit log entries")
		entries, err = s.auditor.GetRecent(limit)
	}

	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve audit logs")
		presenter.Error(w, r, "failed to retrieve audit logs", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}
