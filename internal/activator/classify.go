package activator

import "strings"

// Class is the outcome class assigned to a failed rule submission.
type Class string

const (
	ClassMissingTable  Class = "missing-table"
	ClassMissingColumn Class = "missing-column"
	ClassInvalidQuery  Class = "invalid-query"
	ClassFailed        Class = "failed"
)

// Ignorable reports whether the class is an environmental condition worth
// only a warning: the workspace lacks a table, column, or function the
// rule's query needs, which is expected when connectors have no data yet.
func (c Class) Ignorable() bool {
	return c != ClassFailed
}

// errorPattern maps a known substring in a remote error body to a class.
// Patterns are evaluated in order; extend the table to add new ignorable
// conditions.
type errorPattern struct {
	substr string
	class  Class
}

var ignorablePatterns = []errorPattern{
	{"one of the tables does not exist", ClassMissingTable},
	{"the given column", ClassMissingColumn},
	{"failedtoresolvescalarexpression", ClassInvalidQuery},
	{"semanticerror", ClassInvalidQuery},
}

// Classify inspects a remote error body and assigns a class. Matching is
// case-insensitive; anything unrecognized is a real failure.
func Classify(body string) Class {
	lower := strings.ToLower(body)
	for _, p := range ignorablePatterns {
		if strings.Contains(lower, p.substr) {
			return p.class
		}
	}
	return ClassFailed
}
