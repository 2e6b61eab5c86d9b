package cmd

import (
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/thawk-deploy/internal/activator"
	"github.com/telhawk-systems/thawk-deploy/internal/content"
	"github.com/telhawk-systems/thawk-deploy/pkg/output"
)

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate detection-rule templates against the workspace",
	Long: `Activate every catalog rule template matching the requested severities.
Rules the workspace cannot satisfy (missing tables, columns, or query
functions) are skipped with a warning and do not fail the run.

Rule ids are minted fresh each run: re-running activate creates duplicate
rules rather than updating earlier ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyContentFlags(cmd); err != nil {
			return err
		}
		log, api, errLog, err := newRuntime(cmd)
		if err != nil {
			return err
		}

		result, err := activator.Run(cmd.Context(), log, api, errLog, activator.Params{
			Severities: content.NewSeveritySet(cfg.Severities...),
		})
		if err != nil {
			return err
		}

		printActivateSummary(result, errLog.Path())
		return nil
	},
}

// printActivateSummary reports counts only; per-rule detail is in the logs.
// Activation failures are soft: missing tables or columns are environment
// conditions, not deployment bugs, so they never force a non-zero exit.
func printActivateSummary(result *activator.Result, errLogPath string) {
	output.Success("%d rule(s) deployed", result.Count(activator.StatusDeployed))

	skipped := result.Count(activator.StatusSkippedMissingDependency) +
		result.Count(activator.StatusSkippedInvalidQuery)
	if skipped > 0 {
		output.Warn("%d rule(s) skipped: workspace lacks required tables, columns, or functions", skipped)
	}
	if n := result.Count(activator.StatusFailed); n > 0 {
		output.Error("%d rule(s) failed (full errors in %s)", n, errLogPath)
	}
}

func init() {
	rootCmd.AddCommand(activateCmd)

	activateCmd.Flags().StringSlice("severity", nil, "severities to activate (default High,Medium,Low)")
	activateCmd.Flags().String("manifest", "", "YAML manifest naming severities to activate")
	activateCmd.Flags().StringArray("package", nil, "unused here; accepted for manifest compatibility")
	_ = activateCmd.Flags().MarkHidden("package")
}
