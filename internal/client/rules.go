package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/telhawk-systems/thawk-deploy/internal/content"
)

// Rule is a deployed analytics rule as echoed by the create-or-update call.
type Rule struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Kind       string         `json:"kind"`
	Properties map[string]any `json:"properties"`
}

// CreateRule submits a rule create-or-update under the given rule id. Ids are
// minted fresh per activation, so resubmitting a run creates new rules rather
// than updating earlier ones; that matches the platform's template-activation
// behavior and is deliberate.
func (c *Client) CreateRule(ctx context.Context, ruleID, kind string, props *content.RuleProperties) (*Rule, error) {
	body := struct {
		Kind       string                 `json:"kind"`
		Properties *content.RuleProperties `json:"properties"`
	}{Kind: kind, Properties: props}

	path := c.insightsPath("/alertRules/" + url.PathEscape(ruleID))
	resp, err := c.doRequest(ctx, http.MethodPut, path, ruleAPIVersion, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule %q: %w", ruleID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("failed to create rule %q: %w", ruleID, c.decodeError(resp))
	}

	var rule Rule
	if err := json.NewDecoder(resp.Body).Decode(&rule); err != nil {
		return nil, fmt.Errorf("failed to decode created rule %q: %w", ruleID, err)
	}
	return &rule, nil
}
