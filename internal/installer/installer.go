// Package installer implements the solution install phase: match requested
// packages against the catalog and submit each as an independent incremental
// deployment.
package installer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/telhawk-systems/thawk-deploy/internal/client"
	"github.com/telhawk-systems/thawk-deploy/internal/content"
	"github.com/telhawk-systems/thawk-deploy/internal/errlog"
	"github.com/telhawk-systems/thawk-deploy/internal/logging"
)

// ErrNoPackagesMatched is returned when none of the requested package names
// exist in the catalog. Individual misses are only warnings; matching nothing
// at all means the request itself is wrong.
var ErrNoPackagesMatched = errors.New("none of the requested packages were found in the catalog")

// Status is a package's terminal state for the run.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusNotFound  Status = "not-found"
	StatusFailed    Status = "failed"
)

// Params configures one installer run.
type Params struct {
	Workspace     string
	Region        string
	Packages      []string
	Stagger       time.Duration
	PollInterval  time.Duration
	DeployTimeout time.Duration
}

func (p *Params) withDefaults() Params {
	out := *p
	if out.Stagger == 0 {
		out.Stagger = 500 * time.Millisecond
	}
	if out.PollInterval == 0 {
		out.PollInterval = 5 * time.Second
	}
	if out.DeployTimeout == 0 {
		out.DeployTimeout = 10 * time.Minute
	}
	return out
}

// Outcome is one package's result.
type Outcome struct {
	Package string
	Status  Status
	Err     error
}

// Result aggregates the run. The phase attempts every package regardless of
// individual failures; callers decide the process exit from HasFailures.
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

// HasFailures reports whether any submission failed.
func (r *Result) HasFailures() bool {
	return r.Count(StatusFailed) > 0
}

// Run executes the install phase against a fresh catalog snapshot. It returns
// an error only for fatal setup conditions (catalog unreachable or empty,
// nothing matched); submission failures are carried in the Result.
func Run(ctx context.Context, log *logging.Logger, api *client.Client, errLog *errlog.Writer, params Params) (*Result, error) {
	params = params.withDefaults()
	log.Info("starting solution install",
		logging.Phase("install"),
		logging.Workspace(params.Workspace),
		"requested", len(params.Packages))

	catalog, err := api.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, errors.New("content catalog is empty")
	}

	byDisplayName := make(map[string]content.CatalogEntry, len(catalog))
	for _, entry := range catalog {
		byDisplayName[strings.ToLower(entry.DisplayName)] = entry
	}

	result := &Result{}
	var matched []content.CatalogEntry
	for _, name := range params.Packages {
		entry, ok := byDisplayName[strings.ToLower(name)]
		if !ok {
			log.Warn("package not found in catalog, skipping", logging.Solution(name))
			result.Outcomes = append(result.Outcomes, Outcome{Package: name, Status: StatusNotFound})
			continue
		}
		matched = append(matched, entry)
	}
	if len(matched) == 0 {
		return nil, ErrNoPackagesMatched
	}

	// One task per package, staggered starts, joined at a single barrier.
	// A failing task records its outcome and never cancels its siblings.
	outcomes := make([]Outcome, len(matched))
	var wg sync.WaitGroup
	for i, entry := range matched {
		wg.Add(1)
		go func(i int, entry content.CatalogEntry) {
			defer wg.Done()
			outcomes[i] = installOne(ctx, log, api, errLog, params, entry)
		}(i, entry)

		if i < len(matched)-1 {
			time.Sleep(params.Stagger)
		}
	}
	wg.Wait()
	result.Outcomes = append(result.Outcomes, outcomes...)

	log.Info("solution install complete",
		logging.Phase("install"),
		"installed", result.Count(StatusInstalled),
		"skipped", result.Count(StatusNotFound),
		"failed", result.Count(StatusFailed))
	return result, nil
}

func installOne(ctx context.Context, log *logging.Logger, api *client.Client, errLog *errlog.Writer, params Params, entry content.CatalogEntry) Outcome {
	detail, err := api.GetPackage(ctx, entry.Name)
	if err != nil {
		return failed(log, errLog, entry.DisplayName, "fetch package", err)
	}

	content.ClearPostDeployment(detail.Template)

	req := client.DeploymentRequest{
		Name:     deploymentName(detail.ContentID, detail.Version),
		Template: detail.Template,
		Parameters: map[string]any{
			"workspace":          params.Workspace,
			"workspace-location": params.Region,
		},
	}
	if err := api.CreateDeployment(ctx, req); err != nil {
		return failed(log, errLog, entry.DisplayName, "submit deployment", err)
	}
	if err := api.WaitForDeployment(ctx, req.Name, params.PollInterval, params.DeployTimeout); err != nil {
		return failed(log, errLog, entry.DisplayName, "await deployment", err)
	}

	log.Info("solution installed",
		logging.Solution(entry.DisplayName),
		logging.Status(string(StatusInstalled)),
		"version", detail.Version)
	return Outcome{Package: entry.DisplayName, Status: StatusInstalled}
}

func failed(log *logging.Logger, errLog *errlog.Writer, pkg, operation string, err error) Outcome {
	log.Error("solution install failed",
		logging.Solution(pkg),
		logging.Status(string(StatusFailed)),
		"operation", operation,
		logging.Error(err))
	if apiErr, ok := client.AsAPIError(err); ok {
		if logErr := errLog.Append(pkg, operation, apiErr.Body); logErr != nil {
			log.Warn("could not append to error log", logging.Error(logErr))
		}
	}
	return Outcome{Package: pkg, Status: StatusFailed, Err: err}
}

// deploymentName derives a stable deployment name from the package identity,
// so resubmitting the same package version reuses the same deployment.
func deploymentName(contentID, version string) string {
	name := "thawk-" + sanitize(contentID) + "-" + sanitize(version)
	if len(name) > 64 {
		name = name[:64]
	}
	return strings.TrimRight(name, "-")
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
