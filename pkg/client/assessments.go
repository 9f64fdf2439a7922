package client

import (
	"context"

	"github.com/steph544/compliance-app-sub001/internal/api"
	"github.com/steph544/compliance-app-sub001/internal/core"
)

// Compute submits answers for a subject and returns the computed bundle.
func (c *Client) Compute(
	ctx context.Context,
	subject string,
	payload api.ComputePayload,
) (*core.ComputedResult, string, error) {
	var result core.ComputedResult
	correlation, err := c.post(ctx, c.url().
		setPath(api.ComputeAssessmentRoute).
		setPathParam("subject", subject).
		build(), payload, &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}

// GetAssessment retrieves the last computed bundle for a subject.
func (c *Client) GetAssessment(
	ctx context.Context,
	subject string,
) (*core.ComputedResult, string, error) {
	var result core.ComputedResult
	correlation, err := c.get(ctx, c.url().
		setPath(api.GetAssessmentRoute).
		setPathParam("subject", subject).
		build(), &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}

// ListAssessments retrieves every subject with a computed result.
func (c *Client) ListAssessments(ctx context.Context) ([]string, string, error) {
	var resp api.ListAssessmentsResponse
	correlation, err := c.get(ctx, c.url().
		setPath(api.ListAssessmentsRoute).
		build(), &resp)
	return resp.Subjects, correlation, err
}
