// Package testutil provides testing utilities and helpers for the
// verification suite.
package testutil

import (
	"github.com/cybrty/pentest-e2e/internal/domain/model"
	"github.com/cybrty/pentest-e2e/internal/gen"
)

// RunRequestBuilder provides a fluent interface for building
// SubmitRunRequest objects for testing.
type RunRequestBuilder struct {
	req model.SubmitRunRequest
}

// NewRunRequest creates a RunRequestBuilder with safe defaults: a loopback
// target, basic depth, recon only, and simulation on.
func NewRunRequest() *RunRequestBuilder {
	return &RunRequestBuilder{
		req: model.SubmitRunRequest{
			TenantID: gen.TenantID(),
			AutoPlan: true,
			Inputs: model.RunInputs{
				Targets:  []string{gen.SafeIP()},
				Depth:    model.DepthBasic,
				Features: []string{"recon"},
				Simulate: true,
			},
		},
	}
}

// WithTenantID sets the tenant.
func (b *RunRequestBuilder) WithTenantID(tenantID string) *RunRequestBuilder {
	b.req.TenantID = tenantID
	return b
}

// WithTargets replaces the target list.
func (b *RunRequestBuilder) WithTargets(targets ...string) *RunRequestBuilder {
	b.req.Inputs.Targets = targets
	return b
}

// WithDepth sets the scan depth.
func (b *RunRequestBuilder) WithDepth(depth model.Depth) *RunRequestBuilder {
	b.req.Inputs.Depth = depth
	return b
}

// WithFeatures replaces the feature list.
func (b *RunRequestBuilder) WithFeatures(features ...string) *RunRequestBuilder {
	b.req.Inputs.Features = features
	return b
}

// WithSimulate toggles simulation mode.
func (b *RunRequestBuilder) WithSimulate(simulate bool) *RunRequestBuilder {
	b.req.Inputs.Simulate = simulate
	return b
}

// WithAutoPlan toggles automatic plan approval.
func (b *RunRequestBuilder) WithAutoPlan(autoPlan bool) *RunRequestBuilder {
	b.req.AutoPlan = autoPlan
	return b
}

// WithPolicy sets the policy document.
func (b *RunRequestBuilder) WithPolicy(policy map[string]any) *RunRequestBuilder {
	b.req.Policy = policy
	return b
}

// Build returns the constructed request.
func (b *RunRequestBuilder) Build() model.SubmitRunRequest {
	return b.req
}
