package apiclient

import (
	"context"
	"fmt"

	"github.com/cybrty/pentest-e2e/internal/domain/model"
)

// SubmitRun starts a pentest run. Transport and HTTP errors propagate
// immediately: submission is a one-shot call, never polled.
func (c *Client) SubmitRun(ctx context.Context, req model.SubmitRunRequest) (*model.SubmitRunResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run request: %w", err)
	}

	var resp model.SubmitRunResponse
	if err := c.PostJSON(ctx, "/agents/pentest/run", req, &resp); err != nil {
		return nil, err
	}
	if resp.RunID == "" {
		return nil, fmt.Errorf("submit run: response missing run_id")
	}
	return &resp, nil
}

// GetRun fetches the current run record.
func (c *Client) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var run model.Run
	if err := c.GetJSON(ctx, "/runs/"+runID, &run); err != nil {
		return nil, err
	}
	if run.RunID == "" {
		run.RunID = runID
	}
	return &run, nil
}

// GetRunResults fetches the per-agent results of a run.
func (c *Client) GetRunResults(ctx context.Context, runID string) (*model.RunResults, error) {
	var results model.RunResults
	if err := c.GetJSON(ctx, "/runs/"+runID+"/results", &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// StopRun requests cancellation of a run. The orchestrator acknowledges with
// status "stopping"; the run settles to stopped or failed asynchronously.
func (c *Client) StopRun(ctx context.Context, runID string, req model.StopRunRequest) (*model.StopRunResponse, error) {
	var resp model.StopRunResponse
	if err := c.PostJSON(ctx, "/runs/"+runID+"/stop", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPlan fetches a plan for inspection.
func (c *Client) GetPlan(ctx context.Context, planID string) (*model.Plan, error) {
	var plan model.Plan
	if err := c.GetJSON(ctx, "/plans/"+planID, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ApprovePlan approves a plan so the orchestrator may execute it.
func (c *Client) ApprovePlan(ctx context.Context, planID string) (*model.ApprovePlanResponse, error) {
	var resp model.ApprovePlanResponse
	if err := c.PostJSON(ctx, "/plans/"+planID+"/approve", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
