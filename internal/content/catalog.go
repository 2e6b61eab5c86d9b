// Package content models the catalog entries, packaged solutions, and rule
// templates served by the workspace management API, plus the shape
// normalization the API requires before rule payloads are accepted.
package content

import "strings"

// DeprecatedMarker flags retired rule templates. Vendors encode deprecation
// in the display name rather than a dedicated field.
const DeprecatedMarker = "[Deprecated]"

// CatalogEntry describes one installable content package from the catalog
// listing. The full deployable template is fetched separately by name.
type CatalogEntry struct {
	Name        string `json:"name"`
	ContentID   string `json:"contentId"`
	DisplayName string `json:"displayName"`
	Version     string `json:"version"`
	ContentKind string `json:"contentKind"`
}

// PackageDetail is one package's complete payload: catalog identity plus the
// deployable template. Template stays opaque JSON; only the post-deployment
// wizard reference is touched before submission.
type PackageDetail struct {
	CatalogEntry
	Template map[string]any `json:"mainTemplate"`
}

// TemplateResource is one resource entry inside a rule template's packaged
// payload. The first entry determines the rule engine kind.
type TemplateResource struct {
	Kind       string         `json:"kind"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// RuleTemplate is a detection rule candidate from the catalog.
type RuleTemplate struct {
	Name        string
	ContentID   string
	PackageID   string
	DisplayName string
	Version     string
	Severity    Severity
	Resources   []TemplateResource
}

// IsDeprecated reports whether the template carries the deprecation marker.
func (t *RuleTemplate) IsDeprecated() bool {
	return strings.Contains(t.DisplayName, DeprecatedMarker)
}

// MainResource returns the template's first resource entry, which carries
// the engine kind and the rule properties.
func (t *RuleTemplate) MainResource() (*TemplateResource, bool) {
	if len(t.Resources) == 0 {
		return nil, false
	}
	return &t.Resources[0], true
}

// ClearPostDeployment strips embedded post-deployment wizard references from
// a packaged template, wherever they are nested. The wizard steps reference
// interactive console flows and some API versions reject payloads carrying
// them in an unattended install.
func ClearPostDeployment(v any) {
	switch t := v.(type) {
	case map[string]any:
		delete(t, "postDeployment")
		for _, child := range t {
			ClearPostDeployment(child)
		}
	case []any:
		for _, child := range t {
			ClearPostDeployment(child)
		}
	}
}
