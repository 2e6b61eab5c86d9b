package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/thawk-deploy/internal/auth"
	"github.com/telhawk-systems/thawk-deploy/internal/content"
)

func newTestClient(serverURL string) *Client {
	return New(Config{
		BaseURL:       serverURL,
		Subscription:  "sub-1",
		ResourceGroup: "rg-1",
		Workspace:     "ws-1",
		Tokens:        auth.NewStatic("test-token"),
	})
}

const insightsPrefix = "/subscriptions/sub-1/resourceGroups/rg-1/providers/Microsoft.OperationalInsights/workspaces/ws-1/providers/Microsoft.SecurityInsights"

func TestListPackages_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, insightsPrefix+"/contentProductPackages", r.URL.Path)
		assert.Equal(t, "2023-04-01-preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{
				{
					"name": "azuresentinel.azure-sentinel-solution-syslog",
					"properties": map[string]any{
						"contentId":   "azuresentinel.azure-sentinel-solution-syslog",
						"displayName": "Syslog",
						"version":     "3.0.1",
						"contentKind": "Solution",
					},
				},
			},
		})
	}))
	defer server.Close()

	entries, err := newTestClient(server.URL).ListPackages(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Syslog", entries[0].DisplayName)
	assert.Equal(t, "3.0.1", entries[0].Version)
	assert.Equal(t, "azuresentinel.azure-sentinel-solution-syslog", entries[0].ContentID)
}

func TestListPackages_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"AuthorizationFailed"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListPackages(context.Background())

	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "AuthorizationFailed")
}

func TestGetPackage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, insightsPrefix+"/contentProductPackages/pkg-1", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"name": "pkg-1",
			"properties": map[string]any{
				"contentId":   "pkg-1",
				"displayName": "Syslog",
				"version":     "3.0.1",
				"mainTemplate": map[string]any{
					"resources": []any{},
				},
			},
		})
	}))
	defer server.Close()

	detail, err := newTestClient(server.URL).GetPackage(context.Background(), "pkg-1")

	require.NoError(t, err)
	assert.Equal(t, "Syslog", detail.DisplayName)
	require.NotNil(t, detail.Template)
	assert.Contains(t, detail.Template, "resources")
}

func TestListRuleTemplates_FiltersAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, insightsPrefix+"/contentTemplates", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{
				{
					"name": "tpl-1",
					"properties": map[string]any{
						"contentId":   "rule-content-1",
						"packageId":   "pkg-1",
						"displayName": "Failed Logon Burst",
						"version":     "1.0.2",
						"contentKind": "AnalyticsRule",
						"mainTemplate": map[string]any{
							"resources": []map[string]any{
								{
									"kind": "Scheduled",
									"name": "tpl-1",
									"properties": map[string]any{
										"severity": "high",
										"query":    "Syslog | take 1",
									},
								},
							},
						},
					},
				},
				{
					"name": "workbook-1",
					"properties": map[string]any{
						"contentKind": "Workbook",
						"displayName": "Overview Workbook",
					},
				},
			},
		})
	}))
	defer server.Close()

	templates, err := newTestClient(server.URL).ListRuleTemplates(context.Background())

	require.NoError(t, err)
	require.Len(t, templates, 1, "non-rule content kinds are filtered out")
	tpl := templates[0]
	assert.Equal(t, "Failed Logon Burst", tpl.DisplayName)
	assert.Equal(t, content.SeverityHigh, tpl.Severity)
	assert.Equal(t, "pkg-1", tpl.PackageID)
	require.Len(t, tpl.Resources, 1)
	assert.Equal(t, "Scheduled", tpl.Resources[0].Kind)
}
