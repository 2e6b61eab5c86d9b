package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/thawk-deploy/internal/content"
)

func TestCreateRule_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, insightsPrefix+"/alertRules/rule-id-1", r.URL.Path)

		var body struct {
			Kind       string         `json:"kind"`
			Properties map[string]any `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Scheduled", body.Kind)
		assert.Equal(t, true, body.Properties["enabled"])
		assert.Equal(t, "tpl-1", body.Properties["alertRuleTemplateName"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":   insightsPrefix + "/alertRules/rule-id-1",
			"name": "rule-id-1",
			"kind": "Scheduled",
		})
	}))
	defer server.Close()

	props := content.BuildRuleProperties(map[string]any{"query": "Syslog | take 1"}, "tpl-1", "1.0.0")
	rule, err := newTestClient(server.URL).CreateRule(context.Background(), "rule-id-1", "Scheduled", props)

	require.NoError(t, err)
	assert.Equal(t, "rule-id-1", rule.Name)
}

func TestCreateRule_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"One of the tables does not exist"}}`))
	}))
	defer server.Close()

	props := content.BuildRuleProperties(map[string]any{}, "tpl-1", "1.0.0")
	_, err := newTestClient(server.URL).CreateRule(context.Background(), "rule-id-1", "Scheduled", props)

	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Contains(t, apiErr.Body, "One of the tables does not exist")
}

func TestCreateRuleMetadata_RecordShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, insightsPrefix+"/metadata/analyticsrule-rule-id-1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		props := body["properties"].(map[string]any)
		assert.Equal(t, "rule-content-1", props["contentId"])
		assert.Equal(t, "AnalyticsRule", props["kind"])

		source := props["source"].(map[string]any)
		assert.Equal(t, "Solution", source["kind"])
		assert.Equal(t, "Syslog", source["name"])
		assert.Equal(t, "pkg-1", source["sourceId"])

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	err := c.CreateRuleMetadata(context.Background(), "rule-id-1", MetadataRecord{
		ContentID:  "rule-content-1",
		ParentID:   c.RuleResourceID("rule-id-1"),
		Version:    "1.0.0",
		SourceName: "Syslog",
		SourceID:   "pkg-1",
	})

	require.NoError(t, err)
}

func TestAPIError_Truncated(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	apiErr := &APIError{StatusCode: 500, Body: string(long)}

	assert.Len(t, apiErr.Truncated(TruncateAt), TruncateAt)
	assert.Len(t, apiErr.Body, 1000, "full body preserved for the error log")
	assert.Equal(t, "ab", (&APIError{Body: "ab"}).Truncated(TruncateAt))
}
