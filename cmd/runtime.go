package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/thawk-deploy/internal/auth"
	"github.com/telhawk-systems/thawk-deploy/internal/client"
	"github.com/telhawk-systems/thawk-deploy/internal/config"
	"github.com/telhawk-systems/thawk-deploy/internal/errlog"
	"github.com/telhawk-systems/thawk-deploy/internal/logging"
)

// applyTargetFlags folds explicitly-set flags into the loaded config.
// Precedence: flags over environment over config file.
func applyTargetFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("subscription") {
		cfg.Subscription, _ = f.GetString("subscription")
	}
	if f.Changed("resource-group") {
		cfg.ResourceGroup, _ = f.GetString("resource-group")
	}
	if f.Changed("workspace") {
		cfg.Workspace, _ = f.GetString("workspace")
	}
	if f.Changed("region") {
		cfg.Region, _ = f.GetString("region")
	}
	if f.Changed("gov") {
		cfg.Gov, _ = f.GetBool("gov")
	}
	if f.Changed("token") {
		cfg.Token, _ = f.GetString("token")
	}
	if f.Changed("log-level") {
		cfg.Logging.Level, _ = f.GetString("log-level")
	}
}

// applyContentFlags folds manifest and content-selection flags into the
// config. The manifest fills gaps; explicit flags win over it.
func applyContentFlags(cmd *cobra.Command) error {
	f := cmd.Flags()

	if manifestPath, _ := f.GetString("manifest"); manifestPath != "" {
		m, err := config.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		m.Apply(cfg)
	}
	if f.Changed("package") {
		cfg.Packages, _ = f.GetStringArray("package")
	}
	if f.Changed("severity") {
		cfg.Severities, _ = f.GetStringSlice("severity")
	}
	return nil
}

// newRuntime validates config and builds the shared collaborators every
// phase needs: logger, API client, error log writer.
func newRuntime(cmd *cobra.Command) (*logging.Logger, *client.Client, *errlog.Writer, error) {
	applyTargetFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	log := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(log)

	// The token is consumed once and never refreshed; a run that outlives
	// it fails on the first call after expiry.
	if exp, ok := auth.Expiry(cfg.Token); ok {
		if remaining := time.Until(exp); remaining < 15*time.Minute {
			log.Warn("bearer token expires soon; the run may fail partway",
				"expires_in", remaining.Round(time.Second).String())
		}
	}

	api := client.New(client.Config{
		BaseURL:       client.BaseHost(cfg.Gov),
		Subscription:  cfg.Subscription,
		ResourceGroup: cfg.ResourceGroup,
		Workspace:     cfg.Workspace,
		Tokens:        auth.NewStatic(cfg.Token),
	})

	return log, api, errlog.New(cfg.ErrorLog), nil
}
