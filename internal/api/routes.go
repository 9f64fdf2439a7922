package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/icanhazaegis"

	AssessmentParent       = "/v1/assessments"
	ListAssessmentsRoute   = AssessmentParent
	GetAssessmentRoute     = AssessmentParent + "/{subject}"
	ComputeAssessmentRoute = AssessmentParent + "/{subject}/compute"

	AdminParent     = "/v1/admin/"
	ListAuditsRoute = AdminParent + "audits"
	ExplainRoute    = AdminParent + "explain"

	TaskParent       = AdminParent + "tasks/"
	ListTasksRoute   = TaskParent
	TriggerTaskRoute = TaskParent + "{name}/trigger"
	LogsForTaskRoute = TaskParent + "{name}/logs"
)
