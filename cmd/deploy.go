package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/thawk-deploy/internal/activator"
	"github.com/telhawk-systems/thawk-deploy/internal/content"
	"github.com/telhawk-systems/thawk-deploy/internal/installer"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Install packages, then activate their rule templates",
	Long: `Run the full pipeline: install the requested packages, wait for the
catalog to reflect the new content, then activate matching rule templates.

A failed package install never blocks the remaining packages or the
activation phase; the command still exits non-zero at the end when any
install failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyContentFlags(cmd); err != nil {
			return err
		}
		if cmd.Flags().Changed("delay") {
			cfg.InterPhaseDelay, _ = cmd.Flags().GetDuration("delay")
		}
		log, api, errLog, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		if len(cfg.Packages) == 0 {
			return errors.New("no packages requested (use --package or --manifest)")
		}
		if cfg.Region == "" {
			return errors.New("no region configured (use --region)")
		}

		installResult, err := installer.Run(cmd.Context(), log, api, errLog, installer.Params{
			Workspace:     cfg.Workspace,
			Region:        cfg.Region,
			Packages:      cfg.Packages,
			Stagger:       cfg.Stagger,
			PollInterval:  cfg.PollInterval,
			DeployTimeout: cfg.DeployTimeout,
		})
		if err != nil {
			return err
		}
		printInstallSummary(installResult)

		// Blind delay, not a readiness check: the catalog takes a while to
		// reflect freshly installed content in the template listing.
		log.Info("waiting for catalog to settle", "delay", cfg.InterPhaseDelay.String())
		time.Sleep(cfg.InterPhaseDelay)

		activateResult, err := activator.Run(cmd.Context(), log, api, errLog, activator.Params{
			Severities: content.NewSeveritySet(cfg.Severities...),
		})
		if err != nil {
			return err
		}
		printActivateSummary(activateResult, errLog.Path())

		if installResult.HasFailures() {
			return fmt.Errorf("%d package(s) failed to install (full errors in %s)",
				installResult.Count(installer.StatusFailed), errLog.Path())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringArray("package", nil, "package display name to install (repeatable)")
	deployCmd.Flags().String("manifest", "", "YAML manifest naming packages and severities")
	deployCmd.Flags().StringSlice("severity", nil, "severities to activate (default High,Medium,Low)")
	deployCmd.Flags().Duration("delay", 0, "delay between install and activation phases")
}
