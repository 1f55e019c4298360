// Package model defines the orchestrator API contracts this suite consumes.
//
// The run and plan records are owned and mutated by the external
// orchestrator; this repository only reads them.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RunStatus represents the lifecycle status of a run.
type RunStatus string

// Depth represents how aggressive a run's scanning is.
type Depth string

const (
	// RunStatusPending indicates a run is queued but not started.
	RunStatusPending RunStatus = "pending"
	// RunStatusRunning indicates a run is executing.
	RunStatusRunning RunStatus = "running"
	// RunStatusCompleted indicates every step finished successfully.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusFailed indicates the run finished with failed steps.
	RunStatusFailed RunStatus = "failed"
	// RunStatusError indicates the run aborted on an internal error.
	RunStatusError RunStatus = "error"
	// RunStatusPartial indicates some steps finished and some did not.
	RunStatusPartial RunStatus = "partial"
	// RunStatusStopped indicates the run was cancelled.
	RunStatusStopped RunStatus = "stopped"

	DepthBasic         Depth = "basic"
	DepthStandard      Depth = "standard"
	DepthAdvanced      Depth = "advanced"
	DepthComprehensive Depth = "comprehensive"
)

// Valid returns true if the RunStatus is one of the fixed enumeration.
func (s RunStatus) Valid() bool {
	switch s {
	case RunStatusPending, RunStatusRunning, RunStatusCompleted,
		RunStatusFailed, RunStatusError, RunStatusPartial, RunStatusStopped:
		return true
	}
	return false
}

// Terminal returns true if the status ends the status-poll phase. The domain
// treats terminal statuses as one-way even though the API gives no
// monotonicity guarantee between checks.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusError,
		RunStatusPartial, RunStatusStopped:
		return true
	}
	return false
}

// Valid returns true if the Depth is one of the fixed enumeration.
func (d Depth) Valid() bool {
	switch d {
	case DepthBasic, DepthStandard, DepthAdvanced, DepthComprehensive:
		return true
	}
	return false
}

// UnmarshalText implements encoding.TextUnmarshaler for Depth.
func (d *Depth) UnmarshalText(text []byte) error {
	v := Depth(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid depth: %q", string(text))
	}
	*d = v
	return nil
}

// RunInputs is the nested inputs object of a run submission.
type RunInputs struct {
	Targets  []string `json:"targets"`
	Depth    Depth    `json:"depth"`
	Features []string `json:"features"`
	Simulate bool     `json:"simulate"`
}

// SubmitRunRequest is the body for POST /agents/pentest/run.
type SubmitRunRequest struct {
	TenantID string         `json:"tenant_id"`
	AutoPlan bool           `json:"auto_plan,omitempty"`
	Policy   map[string]any `json:"policy,omitempty"`
	Inputs   RunInputs      `json:"inputs"`
}

// Validate checks a submission before it leaves the client.
func (r *SubmitRunRequest) Validate() error {
	if strings.TrimSpace(r.TenantID) == "" {
		return errors.New("tenant id is required")
	}
	if len(r.Inputs.Targets) == 0 {
		return errors.New("at least one target is required")
	}
	if !r.Inputs.Depth.Valid() {
		return fmt.Errorf("invalid depth: %q", r.Inputs.Depth)
	}
	if len(r.Inputs.Features) == 0 {
		return errors.New("at least one feature is required")
	}
	return nil
}

// SubmitRunResponse is returned by POST /agents/pentest/run.
type SubmitRunResponse struct {
	RunID     string    `json:"run_id"`
	PlanID    string    `json:"plan_id"`
	Status    RunStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Run is the record returned by GET /runs/{run_id}. Fields beyond the status
// contract are kept raw; the suite asserts only on documented fields.
type Run struct {
	RunID     string          `json:"run_id"`
	PlanID    string          `json:"plan_id,omitempty"`
	Status    RunStatus       `json:"status"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Error     string          `json:"error,omitempty"`
	Report    json.RawMessage `json:"report,omitempty"`
}

// AgentResult is one entry of GET /runs/{run_id}/results. Agent-specific
// fields vary by agent and stay raw.
type AgentResult struct {
	Agent  string          `json:"agent"`
	Target string          `json:"target"`
	Raw    json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the full document alongside the common fields.
func (a *AgentResult) UnmarshalJSON(data []byte) error {
	type plain struct {
		Agent  string `json:"agent"`
		Target string `json:"target"`
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	a.Agent = p.Agent
	a.Target = p.Target
	a.Raw = append(a.Raw[:0], data...)
	return nil
}

// RunResults is the body of GET /runs/{run_id}/results.
type RunResults struct {
	RunID   string        `json:"run_id,omitempty"`
	Results []AgentResult `json:"results"`
}

// StopRunRequest is the body for POST /runs/{run_id}/stop.
type StopRunRequest struct {
	Reason    string `json:"reason"`
	Immediate bool   `json:"immediate"`
}

// StopRunResponse acknowledges a stop request.
type StopRunResponse struct {
	Status string `json:"status"`
}
