package content

import "encoding/json"

// Defaults applied when a grouping configuration is absent or incomplete.
const (
	DefaultMatchingMethod = "AllEntities"
	DefaultLookback       = "PT1H"
)

// RuleProperties is the normalized properties payload for a rule
// create-or-update call. Known inconsistent fields are pulled out of the raw
// template properties and carried typed; everything engine-specific passes
// through in Extra untouched.
type RuleProperties struct {
	Enabled               bool
	AlertRuleTemplateName string
	TemplateVersion       string
	EntityMappings        []any
	Connectors            *ConnectorRequirement
	Incident              *IncidentConfiguration
	Extra                 map[string]any
}

// BuildRuleProperties normalizes raw template properties into a submittable
// payload. The rule is always enabled and linked back to its template by
// name and version; caller-supplied values for those fields are discarded.
// Normalization is idempotent: feeding the marshaled output back through
// produces the same payload.
func BuildRuleProperties(raw map[string]any, templateName, templateVersion string) *RuleProperties {
	p := &RuleProperties{
		Enabled:               true,
		AlertRuleTemplateName: templateName,
		TemplateVersion:       templateVersion,
		Extra:                 make(map[string]any, len(raw)),
	}
	for k, v := range raw {
		switch k {
		case "enabled", "alertRuleTemplateName", "templateVersion":
			// forced values win
		case "entityMappings":
			p.EntityMappings = asSequence(v)
		case "requiredDataConnectors":
			p.Connectors = newConnectorRequirement(v)
		case "incidentConfiguration":
			p.Incident = buildIncidentConfiguration(v)
		default:
			p.Extra[k] = v
		}
	}
	return p
}

// MarshalJSON renders the normalized payload with the API's expected shapes:
// entityMappings always a sequence, requiredDataConnectors collapsed to a
// bare object when exactly one connector is required.
func (p *RuleProperties) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+6)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["enabled"] = p.Enabled
	out["alertRuleTemplateName"] = p.AlertRuleTemplateName
	out["templateVersion"] = p.TemplateVersion
	if p.EntityMappings != nil {
		out["entityMappings"] = p.EntityMappings
	}
	if p.Connectors != nil {
		out["requiredDataConnectors"] = p.Connectors.payload()
	}
	if p.Incident != nil {
		out["incidentConfiguration"] = p.Incident.payload()
	}
	return json.Marshal(out)
}

// ConnectorRequirement holds the requiredDataConnectors field, which the
// catalog serves as either a bare object or a sequence. The API wants a bare
// object when exactly one connector is required and a sequence otherwise.
type ConnectorRequirement struct {
	items []any
}

func newConnectorRequirement(v any) *ConnectorRequirement {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return &ConnectorRequirement{items: t}
	default:
		return &ConnectorRequirement{items: []any{t}}
	}
}

// Items returns the requirement's connector entries.
func (c *ConnectorRequirement) Items() []any {
	return c.items
}

func (c *ConnectorRequirement) payload() any {
	if len(c.items) == 1 {
		return c.items[0]
	}
	return c.items
}

// IncidentConfiguration is a rule's incident-creation settings. Grouping is
// always populated on output; a template that has incidentConfiguration at
// all gets a default grouping configuration if the catalog omitted it.
type IncidentConfiguration struct {
	Grouping *GroupingConfiguration
	Extra    map[string]any
}

func buildIncidentConfiguration(v any) *IncidentConfiguration {
	ic := &IncidentConfiguration{Extra: map[string]any{}}
	if m, ok := v.(map[string]any); ok {
		for k, sub := range m {
			if k == "groupingConfiguration" {
				ic.Grouping = buildGrouping(sub)
			} else {
				ic.Extra[k] = sub
			}
		}
	}
	if ic.Grouping == nil {
		ic.Grouping = DefaultGrouping()
	}
	return ic
}

func (ic *IncidentConfiguration) payload() map[string]any {
	out := make(map[string]any, len(ic.Extra)+1)
	for k, v := range ic.Extra {
		out[k] = v
	}
	out["groupingConfiguration"] = ic.Grouping.payload()
	return out
}

// GroupingConfiguration controls how matching alerts are grouped into one
// incident.
type GroupingConfiguration struct {
	MatchingMethod   string
	LookbackDuration string
	Extra            map[string]any
}

// DefaultGrouping returns the grouping configuration used when a template's
// incidentConfiguration carries none.
func DefaultGrouping() *GroupingConfiguration {
	return &GroupingConfiguration{
		MatchingMethod:   DefaultMatchingMethod,
		LookbackDuration: DefaultLookback,
		Extra:            map[string]any{},
	}
}

func buildGrouping(v any) *GroupingConfiguration {
	m, ok := v.(map[string]any)
	if !ok {
		return DefaultGrouping()
	}
	g := &GroupingConfiguration{Extra: map[string]any{}}
	for k, sub := range m {
		switch k {
		case "matchingMethod":
			g.MatchingMethod, _ = sub.(string)
		case "lookbackDuration":
			if s, ok := sub.(string); ok {
				g.LookbackDuration = NormalizeLookback(s)
			}
		default:
			g.Extra[k] = sub
		}
	}
	if g.MatchingMethod == "" {
		g.MatchingMethod = DefaultMatchingMethod
	}
	return g
}

func (g *GroupingConfiguration) payload() map[string]any {
	out := make(map[string]any, len(g.Extra)+2)
	for k, v := range g.Extra {
		out[k] = v
	}
	out["matchingMethod"] = g.MatchingMethod
	if g.LookbackDuration != "" {
		out["lookbackDuration"] = g.LookbackDuration
	}
	return out
}

func asSequence(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}
