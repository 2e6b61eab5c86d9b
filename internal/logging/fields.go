package logging

import "log/slog"

// Common field names for consistent logging across phases.
const (
	FieldPhase     = "phase"
	FieldWorkspace = "workspace"
	FieldSolution  = "solution"
	FieldRule      = "rule"
	FieldRuleID    = "rule_id"
	FieldSeverity  = "severity"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Phase returns a slog attribute for the orchestrator phase name.
func Phase(name string) slog.Attr {
	return slog.String(FieldPhase, name)
}

// Workspace returns a slog attribute for the target workspace name.
func Workspace(name string) slog.Attr {
	return slog.String(FieldWorkspace, name)
}

// Solution returns a slog attribute for a solution display name.
func Solution(name string) slog.Attr {
	return slog.String(FieldSolution, name)
}

// Rule returns a slog attribute for a rule template display name.
func Rule(name string) slog.Attr {
	return slog.String(FieldRule, name)
}

// RuleID returns a slog attribute for a deployed rule identifier.
func RuleID(id string) slog.Attr {
	return slog.String(FieldRuleID, id)
}

// Severity returns a slog attribute for a rule severity.
func Severity(s string) slog.Attr {
	return slog.String(FieldSeverity, s)
}

// Status returns a slog attribute for an item's terminal status.
func Status(s string) slog.Attr {
	return slog.String(FieldStatus, s)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}
