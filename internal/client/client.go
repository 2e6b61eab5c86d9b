// Package client is the REST client for the workspace management API: content
// catalog reads, template deployments, rule create-or-update, and metadata
// linking records.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/telhawk-systems/thawk-deploy/internal/auth"
)

// Management API hosts. The government cloud runs the same API surface on a
// different base host.
const (
	PublicCloudHost = "https://management.azure.com"
	GovCloudHost    = "https://management.usgovcloudapi.net"
)

// API versions per endpoint family.
const (
	contentAPIVersion    = "2023-04-01-preview"
	ruleAPIVersion       = "2023-12-01-preview"
	deploymentAPIVersion = "2021-04-01"
)

// BaseHost returns the management API host for the selected cloud.
func BaseHost(gov bool) string {
	if gov {
		return GovCloudHost
	}
	return PublicCloudHost
}

// Config configures a management API client for one workspace.
type Config struct {
	BaseURL       string
	Subscription  string
	ResourceGroup string
	Workspace     string
	Tokens        auth.TokenProvider
	Timeout       time.Duration
}

// Client is a management API client scoped to one workspace.
type Client struct {
	baseURL       string
	subscription  string
	resourceGroup string
	workspace     string
	tokens        auth.TokenProvider
	httpClient    *http.Client
}

// New creates a management API client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = PublicCloudHost
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		baseURL:       cfg.BaseURL,
		subscription:  cfg.Subscription,
		resourceGroup: cfg.ResourceGroup,
		workspace:     cfg.Workspace,
		tokens:        cfg.Tokens,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

// scopePath is the resource-group scope every request lives under.
func (c *Client) scopePath() string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s",
		url.PathEscape(c.subscription), url.PathEscape(c.resourceGroup))
}

// insightsPath builds a path under the workspace's security-insights provider.
func (c *Client) insightsPath(suffix string) string {
	return fmt.Sprintf(
		"%s/providers/Microsoft.OperationalInsights/workspaces/%s/providers/Microsoft.SecurityInsights%s",
		c.scopePath(), url.PathEscape(c.workspace), suffix)
}

// RuleResourceID returns the full resource id a deployed rule is addressed
// by, used as the parent id on metadata linking records.
func (c *Client) RuleResourceID(ruleID string) string {
	return c.insightsPath("/alertRules/" + url.PathEscape(ruleID))
}

func (c *Client) doRequest(ctx context.Context, method, path, apiVersion string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?api-version="+apiVersion, bodyReader)
	if err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain bearer token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// decodeError drains resp and returns it as an *APIError.
func (c *Client) decodeError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	return &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
}
