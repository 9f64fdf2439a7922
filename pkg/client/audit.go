package client

import (
	"context"

	"github.com/steph544/compliance-app-sub001/internal/api"
	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/service"
)

type ListAuditsOpts struct {
	Limit uint

	CorrelationID string
	Subject       string

	// Filter is an expression evaluated server-side against each entry,
	// e.g. `RiskTier == "HIGH" && FindingCount > 0`.
	Filter string
}

// ListAudits retrieves the latest audit entries from the server, limited to the specified number.
func (c *Client) ListAudits(ctx context.Context, opts ListAuditsOpts) ([]core.AuditEntry, string, error) {
	ub := c.url().setPath(api.ListAuditsRoute)
	if opts.Limit > 0 {
		ub = ub.addQueryParam("limit", opts.Limit)
	}
	if opts.CorrelationID != "" {
		ub = ub.addQueryParam("correlation_id", opts.CorrelationID)
	}
	if opts.Subject != "" {
		ub = ub.addQueryParam("subject", opts.Subject)
	}
	if opts.Filter != "" {
		ub = ub.addQueryParam("filter", opts.Filter)
	}
	var resp []core.AuditEntry
	correlation, err := c.get(ctx, ub.build(), &resp)
	return resp, correlation, err
}

// ExplainTrace runs a full rule trace server-side, either live from answers
// or by replaying a prior computation.
func (c *Client) ExplainTrace(
	ctx context.Context,
	opts service.ExplainRequest,
) (*core.EvaluationTrace, string, error) {
	var trace core.EvaluationTrace
	correlation, err := c.post(ctx, c.url().
		setPath(api.ExplainRoute).
		build(), opts, &trace)
	if err != nil {
		return nil, correlation, err
	}
	return &trace, correlation, nil
}
