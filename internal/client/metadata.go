package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// MetadataRecord links a deployed rule back to the solution it came from.
type MetadataRecord struct {
	ContentID  string
	ParentID   string
	Version    string
	SourceName string
	SourceID   string
}

// CreateRuleMetadata writes the linking metadata record for a deployed rule.
// The record is keyed by rule id, so re-deploying the same rule id overwrites
// its metadata in place.
func (c *Client) CreateRuleMetadata(ctx context.Context, ruleID string, rec MetadataRecord) error {
	body := map[string]any{
		"properties": map[string]any{
			"contentId": rec.ContentID,
			"parentId":  rec.ParentID,
			"kind":      "AnalyticsRule",
			"version":   rec.Version,
			"source": map[string]any{
				"kind":     "Solution",
				"name":     rec.SourceName,
				"sourceId": rec.SourceID,
			},
		},
	}

	path := c.insightsPath("/metadata/analyticsrule-" + url.PathEscape(ruleID))
	resp, err := c.doRequest(ctx, http.MethodPut, path, ruleAPIVersion, body)
	if err != nil {
		return fmt.Errorf("failed to write metadata for rule %q: %w", ruleID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to write metadata for rule %q: %w", ruleID, c.decodeError(resp))
	}
	return nil
}
