package carbonapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/session"
)

func versionQuery(version int) url.Values {
	return url.Values{"version": []string{strconv.Itoa(version)}}
}

// GetBreakdown fetches the flat material/element/system summary of a version.
func (c *Client) GetBreakdown(ctx context.Context, id session.Identity, projectID string, version int) (*domain.BreakdownSummary, error) {
	var s domain.BreakdownSummary
	if err := c.getJSON(ctx, id, "GetBreakdown", projectPath(projectID, "get_breakdown"), versionQuery(version), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetEcBreakdown fetches the category → element → material tree of a version.
func (c *Client) GetEcBreakdown(ctx context.Context, id session.Identity, projectID string, version int) (*domain.EcBreakdownTree, error) {
	var t domain.EcBreakdownTree
	if err := c.getJSON(ctx, id, "GetEcBreakdown", projectPath(projectID, "get_ec_breakdown"), versionQuery(version), &t); err != nil {
		return nil, err
	}
	return &t, nil
}
