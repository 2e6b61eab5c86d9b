// Package activator implements the rule activation phase: filter the
// catalog's rule templates, normalize their payloads, and create one analytics
// rule per surviving template.
package activator

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/telhawk-systems/thawk-deploy/internal/client"
	"github.com/telhawk-systems/thawk-deploy/internal/content"
	"github.com/telhawk-systems/thawk-deploy/internal/errlog"
	"github.com/telhawk-systems/thawk-deploy/internal/logging"
)

// Fallback source attribution when a rule's originating solution cannot be
// resolved from the catalog.
const (
	UnknownSolutionName = "Unknown Solution"
	UnknownSolutionID   = "Unknown-ID"
)

// Status is a rule template's terminal state for the run. Every template
// ends in exactly one; nothing is retried within a run.
type Status string

const (
	StatusDeployed                 Status = "deployed"
	StatusSkippedDeprecated        Status = "skipped-deprecated"
	StatusSkippedSeverity          Status = "skipped-severity"
	StatusSkippedMissingDependency Status = "skipped-missing-dependency"
	StatusSkippedInvalidQuery      Status = "skipped-invalid-query"
	StatusFailed                   Status = "failed"
)

// Params configures one activation run.
type Params struct {
	Severities content.SeveritySet
}

// Outcome is one template's result. RuleID is set only for deployed rules.
type Outcome struct {
	Template string
	RuleID   string
	Status   Status
	Class    Class
	Err      error
}

// Result aggregates the run. Activation failures are soft by design; the
// caller logs them but they do not force a non-zero exit on their own.
type Result struct {
	Outcomes []Outcome
}

// Count returns how many outcomes ended in the given status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Run executes the activation phase over a fresh catalog snapshot. Templates
// are processed sequentially: each submission mutates remote state and the
// assigned rule id feeds the follow-up metadata record. An error is returned
// only for fatal setup conditions.
func Run(ctx context.Context, log *logging.Logger, api *client.Client, errLog *errlog.Writer, params Params) (*Result, error) {
	templates, err := api.ListRuleTemplates(ctx)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, errors.New("catalog has no rule templates")
	}

	log.Info("starting rule activation",
		logging.Phase("activate"),
		"templates", len(templates),
		"severities", params.Severities.Names())

	// Solution index for metadata linking. Losing it degrades attribution,
	// not deployment, so a listing failure is a warning.
	sources := map[string]content.CatalogEntry{}
	if packages, err := api.ListPackages(ctx); err != nil {
		log.Warn("could not list packages for source attribution", logging.Error(err))
	} else {
		for _, entry := range packages {
			sources[entry.ContentID] = entry
		}
	}

	result := &Result{Outcomes: make([]Outcome, 0, len(templates))}
	for i := range templates {
		outcome := activateOne(ctx, log, api, errLog, params, &templates[i], sources)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	log.Info("rule activation complete",
		logging.Phase("activate"),
		"deployed", result.Count(StatusDeployed),
		"skipped_deprecated", result.Count(StatusSkippedDeprecated),
		"skipped_severity", result.Count(StatusSkippedSeverity),
		"skipped_missing_dependency", result.Count(StatusSkippedMissingDependency),
		"skipped_invalid_query", result.Count(StatusSkippedInvalidQuery),
		"failed", result.Count(StatusFailed))
	return result, nil
}

func activateOne(ctx context.Context, log *logging.Logger, api *client.Client, errLog *errlog.Writer, params Params, tpl *content.RuleTemplate, sources map[string]content.CatalogEntry) Outcome {
	if tpl.IsDeprecated() {
		log.Debug("skipping deprecated template", logging.Rule(tpl.DisplayName))
		return Outcome{Template: tpl.DisplayName, Status: StatusSkippedDeprecated}
	}
	if !params.Severities.Contains(tpl.Severity) {
		log.Debug("skipping template outside requested severities",
			logging.Rule(tpl.DisplayName),
			logging.Severity(string(tpl.Severity)))
		return Outcome{Template: tpl.DisplayName, Status: StatusSkippedSeverity}
	}

	main, ok := tpl.MainResource()
	if !ok {
		err := errors.New("template has no resources")
		log.Error("rule activation failed", logging.Rule(tpl.DisplayName), logging.Error(err))
		return Outcome{Template: tpl.DisplayName, Status: StatusFailed, Class: ClassFailed, Err: err}
	}

	props := content.BuildRuleProperties(main.Properties, tpl.Name, tpl.Version)
	ruleID := uuid.NewString()

	rule, err := api.CreateRule(ctx, ruleID, main.Kind, props)
	if err != nil {
		return classifyFailure(log, errLog, tpl.DisplayName, err)
	}

	log.Info("rule deployed",
		logging.Rule(tpl.DisplayName),
		logging.RuleID(rule.Name),
		logging.Severity(string(tpl.Severity)),
		logging.Status(string(StatusDeployed)))

	writeMetadata(ctx, log, api, tpl, rule.Name, sources)

	return Outcome{Template: tpl.DisplayName, RuleID: rule.Name, Status: StatusDeployed}
}

// classifyFailure sorts a submission failure into ignorable-skip vs. real
// failure using the pattern table in classify.go.
func classifyFailure(log *logging.Logger, errLog *errlog.Writer, template string, err error) Outcome {
	apiErr, ok := client.AsAPIError(err)
	if !ok {
		log.Error("rule activation failed", logging.Rule(template), logging.Error(err))
		return Outcome{Template: template, Status: StatusFailed, Class: ClassFailed, Err: err}
	}

	class := Classify(apiErr.Body)
	if class.Ignorable() {
		log.Warn("skipping rule the workspace cannot satisfy",
			logging.Rule(template),
			"class", string(class),
			"detail", apiErr.Truncated(client.TruncateAt))
		status := StatusSkippedMissingDependency
		if class == ClassInvalidQuery {
			status = StatusSkippedInvalidQuery
		}
		return Outcome{Template: template, Status: status, Class: class}
	}

	log.Error("rule activation failed", logging.Rule(template), logging.Error(err))
	if logErr := errLog.Append(template, "create rule", apiErr.Body); logErr != nil {
		log.Warn("could not append to error log", logging.Error(logErr))
	}
	return Outcome{Template: template, Status: StatusFailed, Class: ClassFailed, Err: err}
}

// writeMetadata links the deployed rule back to its source solution. Failure
// here never demotes the rule from deployed.
func writeMetadata(ctx context.Context, log *logging.Logger, api *client.Client, tpl *content.RuleTemplate, ruleID string, sources map[string]content.CatalogEntry) {
	sourceName, sourceID := UnknownSolutionName, UnknownSolutionID
	if entry, ok := sources[tpl.PackageID]; ok {
		sourceName, sourceID = entry.DisplayName, entry.ContentID
	} else {
		log.Warn("could not resolve source solution for rule",
			logging.Rule(tpl.DisplayName),
			"package_id", tpl.PackageID)
	}

	rec := client.MetadataRecord{
		ContentID:  tpl.ContentID,
		ParentID:   api.RuleResourceID(ruleID),
		Version:    tpl.Version,
		SourceName: sourceName,
		SourceID:   sourceID,
	}
	if err := api.CreateRuleMetadata(ctx, ruleID, rec); err != nil {
		log.Warn("could not write rule metadata",
			logging.Rule(tpl.DisplayName),
			logging.RuleID(ruleID),
			logging.Error(err))
	}
}
