package content

import "strings"

// Severity is the priority label carried by a rule template.
type Severity string

const (
	SeverityHigh          Severity = "High"
	SeverityMedium        Severity = "Medium"
	SeverityLow           Severity = "Low"
	SeverityInformational Severity = "Informational"
	SeverityUnknown       Severity = "Unknown"
)

// DefaultSeverities is the set activated when the caller requests none
// explicitly. Informational is deliberately excluded.
var DefaultSeverities = []string{"High", "Medium", "Low"}

// ParseSeverity parses a severity label case-insensitively.
// Unrecognized values map to SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	case "informational":
		return SeverityInformational
	default:
		return SeverityUnknown
	}
}

// SeveritySet is a requested-severities filter. The empty set matches
// every severity, including unknown ones.
type SeveritySet map[Severity]struct{}

// NewSeveritySet builds a SeveritySet from severity names, dropping
// names that do not parse to a known severity.
func NewSeveritySet(names ...string) SeveritySet {
	set := make(SeveritySet, len(names))
	for _, n := range names {
		if sev := ParseSeverity(n); sev != SeverityUnknown {
			set[sev] = struct{}{}
		}
	}
	return set
}

// Contains reports whether sev passes the filter.
func (s SeveritySet) Contains(sev Severity) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[sev]
	return ok
}

// Names returns the set's members as sorted display strings.
func (s SeveritySet) Names() []string {
	order := []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityInformational}
	names := make([]string, 0, len(s))
	for _, sev := range order {
		if _, ok := s[sev]; ok {
			names = append(names, string(sev))
		}
	}
	return names
}
