package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleTemplate_IsDeprecated(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    bool
	}{
		{"plain", "Suspicious Logon Burst", false},
		{"marker prefix", "[Deprecated] Suspicious Logon Burst", true},
		{"marker embedded", "Suspicious Logon Burst [Deprecated]", true},
		{"lowercase marker is not the marker", "[deprecated] Old Rule", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := RuleTemplate{DisplayName: tt.display}
			assert.Equal(t, tt.want, tpl.IsDeprecated())
		})
	}
}

func TestRuleTemplate_MainResource(t *testing.T) {
	tpl := RuleTemplate{}
	_, ok := tpl.MainResource()
	assert.False(t, ok)

	tpl.Resources = []TemplateResource{
		{Kind: "Scheduled", Properties: map[string]any{"severity": "High"}},
		{Kind: "NRT"},
	}
	main, ok := tpl.MainResource()
	require.True(t, ok)
	assert.Equal(t, "Scheduled", main.Kind)
}

func TestClearPostDeployment(t *testing.T) {
	template := map[string]any{
		"resources": []any{
			map[string]any{
				"type": "metadata",
				"properties": map[string]any{
					"postDeployment": map[string]any{"wizard": "connect-data"},
					"version":        "2.0.1",
				},
			},
			map[string]any{
				"type": "contentTemplates",
				"properties": map[string]any{
					"mainTemplate": map[string]any{
						"resources": []any{
							map[string]any{
								"properties": map[string]any{
									"postDeployment": "steps",
								},
							},
						},
					},
				},
			},
		},
	}

	ClearPostDeployment(template)

	data := template["resources"].([]any)
	first := data[0].(map[string]any)["properties"].(map[string]any)
	_, present := first["postDeployment"]
	assert.False(t, present, "top-level wizard reference must be cleared")
	assert.Equal(t, "2.0.1", first["version"], "sibling fields survive")

	nested := data[1].(map[string]any)["properties"].(map[string]any)["mainTemplate"].(map[string]any)["resources"].([]any)[0].(map[string]any)["properties"].(map[string]any)
	_, present = nested["postDeployment"]
	assert.False(t, present, "nested wizard reference must be cleared")
}
