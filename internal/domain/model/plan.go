package model

import (
	"encoding/json"
	"time"
)

// PlanStep is one planned action inside a plan.
type PlanStep struct {
	StepID string          `json:"step_id"`
	Agent  string          `json:"agent"`
	Tool   string          `json:"tool,omitempty"`
	Target string          `json:"target,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Plan is returned by GET /plans/{plan_id}.
type Plan struct {
	PlanID    string     `json:"plan_id"`
	TenantID  string     `json:"tenant_id,omitempty"`
	Status    string     `json:"status"`
	Steps     []PlanStep `json:"steps,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ApprovePlanResponse acknowledges POST /plans/{plan_id}/approve.
type ApprovePlanResponse struct {
	PlanID string `json:"plan_id"`
	Status string `json:"status"`
}
