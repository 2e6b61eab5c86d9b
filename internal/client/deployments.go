package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Deployment provisioning states reported by the deployments endpoint.
const (
	DeploymentSucceeded = "Succeeded"
	DeploymentFailed    = "Failed"
	DeploymentCanceled  = "Canceled"
)

// DeploymentRequest is one incremental template deployment. Name keys the
// deployment on the remote side: resubmitting the same name with the same
// body is safe.
type DeploymentRequest struct {
	Name       string
	Template   map[string]any
	Parameters map[string]any
}

// CreateDeployment submits an incremental deployment at resource-group scope.
// Incremental mode merges the template into existing resources rather than
// replacing them. The call returns once the deployment is accepted; use
// WaitForDeployment to follow it to a terminal state.
func (c *Client) CreateDeployment(ctx context.Context, req DeploymentRequest) error {
	params := make(map[string]any, len(req.Parameters))
	for k, v := range req.Parameters {
		params[k] = map[string]any{"value": v}
	}

	body := map[string]any{
		"properties": map[string]any{
			"mode":       "Incremental",
			"template":   req.Template,
			"parameters": params,
		},
	}

	path := c.scopePath() + "/providers/Microsoft.Resources/deployments/" + url.PathEscape(req.Name)
	resp, err := c.doRequest(ctx, http.MethodPut, path, deploymentAPIVersion, body)
	if err != nil {
		return fmt.Errorf("failed to submit deployment %q: %w", req.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to submit deployment %q: %w", req.Name, c.decodeError(resp))
	}
	return nil
}

// DeploymentState is a point-in-time view of a submitted deployment.
type DeploymentState struct {
	ProvisioningState string
	ErrorBody         string
}

// Terminal reports whether the deployment has finished, in either direction.
func (s DeploymentState) Terminal() bool {
	switch s.ProvisioningState {
	case DeploymentSucceeded, DeploymentFailed, DeploymentCanceled:
		return true
	}
	return false
}

// GetDeployment reads a deployment's current provisioning state.
func (c *Client) GetDeployment(ctx context.Context, name string) (DeploymentState, error) {
	path := c.scopePath() + "/providers/Microsoft.Resources/deployments/" + url.PathEscape(name)
	resp, err := c.doRequest(ctx, http.MethodGet, path, deploymentAPIVersion, nil)
	if err != nil {
		return DeploymentState{}, fmt.Errorf("failed to poll deployment %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return DeploymentState{}, fmt.Errorf("failed to poll deployment %q: %w", name, c.decodeError(resp))
	}

	var envelope struct {
		Properties struct {
			ProvisioningState string          `json:"provisioningState"`
			Error             json.RawMessage `json:"error"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return DeploymentState{}, fmt.Errorf("failed to decode deployment %q: %w", name, err)
	}

	return DeploymentState{
		ProvisioningState: envelope.Properties.ProvisioningState,
		ErrorBody:         string(envelope.Properties.Error),
	}, nil
}

// WaitForDeployment polls until the deployment reaches a terminal state. A
// failed or canceled deployment comes back as an *APIError carrying the
// deployment's error body so callers can log and file it like any other
// submission failure.
func (c *Client) WaitForDeployment(ctx context.Context, name string, pollInterval, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		state, err := c.GetDeployment(ctx, name)
		if err != nil {
			return err
		}
		if state.Terminal() {
			if state.ProvisioningState == DeploymentSucceeded {
				return nil
			}
			return fmt.Errorf("deployment %q ended %s: %w", name, state.ProvisioningState,
				&APIError{StatusCode: http.StatusOK, Body: state.ErrorBody})
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("deployment %q did not finish within %s: %w", name, timeout, ctx.Err())
		case <-ticker.C:
		}
	}
}
