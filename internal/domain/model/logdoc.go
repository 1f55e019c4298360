package model

// Field names of the log documents the orchestrator's logging pipeline writes
// asynchronously after run state changes. Documents are shape-varying; only
// the fields named here are part of the contract this suite asserts on.
const (
	FieldRunID    = "run_id"
	FieldPlanID   = "plan_id"
	FieldStepID   = "step_id"
	FieldTenantID = "tenant_id"
	FieldAgent    = "agent"
	FieldTool     = "tool"
	FieldStatus   = "status"

	FieldStartedAt  = "started_at"
	FieldEndedAt    = "ended_at"
	FieldCreatedAt  = "created_at"
	FieldDurationMS = "duration_ms"

	FieldStepsCount     = "steps_count"
	FieldStepsCompleted = "steps_completed"
	FieldStepsFailed    = "steps_failed"
	FieldFindingsCount  = "findings_count"
	FieldErrorMessage   = "error_message"
)

// ActionRequiredFields are the fields every per-step action document carries.
var ActionRequiredFields = []string{
	FieldRunID, FieldStepID, FieldAgent, FieldTool, FieldStatus,
	FieldStartedAt, FieldEndedAt, FieldDurationMS,
}

// RunSummaryRequiredFields are the fields every run summary document carries.
var RunSummaryRequiredFields = []string{
	FieldRunID, FieldPlanID, FieldStatus, FieldStartedAt, FieldEndedAt,
	FieldDurationMS, FieldStepsCount, FieldStepsCompleted,
}

// PlannerRequiredFields are the fields every planner decision document carries.
var PlannerRequiredFields = []string{
	FieldPlanID, FieldTenantID, FieldCreatedAt,
}
