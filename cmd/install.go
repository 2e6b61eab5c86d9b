package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/thawk-deploy/internal/installer"
	"github.com/telhawk-systems/thawk-deploy/pkg/output"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install content packages into the workspace",
	Long: `Install the requested content packages as incremental deployments.
Packages missing from the catalog are skipped with a warning. The command
exits non-zero if any submission fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyContentFlags(cmd); err != nil {
			return err
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

		result, err := installer.Run(cmd.Context(), log, api, errLog, installer.Params{
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

		printInstallSummary(result)
		if result.HasFailures() {
			return fmt.Errorf("%d package(s) failed to install (full errors in %s)",
				result.Count(installer.StatusFailed), errLog.Path())
		}
		return nil
	},
}

func printInstallSummary(result *installer.Result) {
	for _, o := range result.Outcomes {
		switch o.Status {
		case installer.StatusInstalled:
			output.Success("%s installed", o.Package)
		case installer.StatusNotFound:
			output.Warn("%s not found in catalog, skipped", o.Package)
		case installer.StatusFailed:
			output.Error("%s failed: %v", o.Package, o.Err)
		}
	}
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringArray("package", nil, "package display name to install (repeatable)")
	installCmd.Flags().String("manifest", "", "YAML manifest naming packages to install")
	installCmd.Flags().StringSlice("severity", nil, "unused here; accepted for manifest compatibility")
	_ = installCmd.Flags().MarkHidden("severity")
}
