// Package e2e holds the live verification scenarios. They need a reachable
// orchestrator API and search cluster and are opted into with E2E_TESTS=1.
package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybrty/pentest-e2e/internal/domain/model"
	"github.com/cybrty/pentest-e2e/internal/testutil"
	"github.com/cybrty/pentest-e2e/internal/util"
)

// TestReconRunCompletesAndIsLogged is the happy path: a simulated recon run
// against loopback reaches a terminal status and leaves a complete audit
// trail in the logging indices.
func TestReconRunCompletesAndIsLogged(t *testing.T) {
	h := testutil.NewE2EHarness(t)
	ctx := testutil.Context(t, h.Timing().RunTimeout+h.Timing().LogTimeout)

	require.NoError(t, h.EnsureIndices(ctx))

	run, err := h.SubmitAndAwaitTerminal(ctx, testutil.NewRunRequest().Build())
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.RunStatusCompleted, run.Status, "run did not complete: %s", run.Error)

	require.NoError(t, h.VerifyRunLogging(ctx, run.RunID, 1))
}

// TestRunSummaryFieldsMatchAPI cross-checks the logged summary document
// against the run record the API reports.
func TestRunSummaryFieldsMatchAPI(t *testing.T) {
	h := testutil.NewE2EHarness(t)
	ctx := testutil.Context(t, h.Timing().RunTimeout+h.Timing().LogTimeout)

	run, err := h.SubmitAndAwaitTerminal(ctx, testutil.NewRunRequest().Build())
	require.NoError(t, err)

	doc, err := h.AwaitRunLogged(ctx, run.RunID)
	require.NoError(t, err)

	loggedStatus, err := util.ExtractString(doc, model.FieldStatus)
	require.NoError(t, err)
	assert.Equal(t, string(run.Status), loggedStatus)

	loggedRunID, err := util.ExtractString(doc, model.FieldRunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, loggedRunID)
}

// TestActionDocumentsCarryContractFields asserts every per-step action
// document of a finished run carries the documented fields and references
// the run that produced it.
func TestActionDocumentsCarryContractFields(t *testing.T) {
	h := testutil.NewE2EHarness(t)
	ctx := testutil.Context(t, h.Timing().RunTimeout+h.Timing().LogTimeout)

	run, err := h.SubmitAndAwaitTerminal(ctx, testutil.NewRunRequest().Build())
	require.NoError(t, err)

	hits, err := h.AwaitActionsLogged(ctx, run.RunID, 1)
	require.NoError(t, err)

	for _, hit := range hits {
		missing, err := util.HasFields(hit.Source, model.ActionRequiredFields)
		require.NoError(t, err)
		assert.Emptyf(t, missing, "action %s missing fields", hit.ID)

		runID, err := util.ExtractString(hit.Source, model.FieldRunID)
		require.NoError(t, err)
		assert.Equal(t, run.RunID, runID)
	}
}

// TestManualPlanApprovalFlow exercises the plan inspection path: with
// auto-plan off, the plan must be fetched and approved before the run
// proceeds, and the planner decision must be logged.
func TestManualPlanApprovalFlow(t *testing.T) {
	h := testutil.NewE2EHarness(t)
	ctx := testutil.Context(t, h.Timing().RunTimeout+h.Timing().LogTimeout)

	resp, err := h.API.SubmitRun(ctx, testutil.NewRunRequest().WithAutoPlan(false).Build())
	require.NoError(t, err)
	require.NotEmpty(t, resp.PlanID)

	plan, err := h.API.GetPlan(ctx, resp.PlanID)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Steps)

	_, err = h.API.ApprovePlan(ctx, resp.PlanID)
	require.NoError(t, err)

	run, err := h.AwaitTerminal(ctx, resp.RunID)
	require.NoError(t, err)
	assert.True(t, run.Status.Terminal())

	doc, err := h.AwaitPlannerLogged(ctx, resp.PlanID)
	require.NoError(t, err)
	missing, err := util.HasFields(doc, model.PlannerRequiredFields)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
