package api

import (
	"net/http"

	"github.com/steph544/compliance-app-sub001/internal/api/middleware"
	"github.com/steph544/compliance-app-sub001/internal/audit"
	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/engine"
	"github.com/steph544/compliance-app-sub001/internal/service"
	"github.com/steph544/compliance-app-sub001/internal/tasks"
)

type Server struct {
	catalogManager *engine.CatalogManager
	taskManager    *tasks.Manager
	auditor        core.Auditor
	assessments    *service.AssessmentService
}

func NewServer(
	catalogManager *engine.CatalogManager,
	taskManager *tasks.Manager,
	auditor core.Auditor,
	results core.ResultStore,
	defaultVendor string,
) *Server {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}

	svc := service.NewAssessmentService(catalogManager, auditor, results, defaultVendor)

	return &Server{
		catalogManager: catalogManager,
		taskManager:    taskManager,
		auditor:        auditor,
		assessments:    svc,
	}
}

func (s *Server) Routes(signingKey []byte) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// assessment routes
	mux.HandleFunc("GET "+ListAssessmentsRoute, s.handleListAssessments)
	mux.HandleFunc("GET "+GetAssessmentRoute, s.handleGetAssessment)
	mux.HandleFunc("POST "+ComputeAssessmentRoute, s.handleCompute)

	// admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudit)
	adminMux.HandleFunc("POST "+ExplainRoute, s.handleExplain)
	adminMux.HandleFunc("GET "+ListTasksRoute, s.handleListTasks)
	adminMux.HandleFunc("POST "+TriggerTaskRoute, s.handleTriggerTask)
	adminMux.HandleFunc("GET "+LogsForTaskRoute, s.handleLogsForTask)
	mux.Handle(AdminParent, middleware.AdminAuth(signingKey)(adminMux))

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
