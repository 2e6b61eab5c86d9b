// Package cmd wires the thawk-deploy command surface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/thawk-deploy/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "thawk-deploy",
	Short: "Workspace content deployment orchestrator",
	Long: `thawk-deploy provisions a cloud security analytics workspace with packaged
content: it installs vendor solutions from the content catalog and activates
the matching detection-rule templates against the workspace.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.thawk-deploy/config.yaml)")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
	rootCmd.PersistentFlags().String("subscription", "", "subscription id")
	rootCmd.PersistentFlags().String("resource-group", "", "target resource group")
	rootCmd.PersistentFlags().String("workspace", "", "target workspace name")
	rootCmd.PersistentFlags().String("region", "", "target region")
	rootCmd.PersistentFlags().Bool("gov", false, "use the government-cloud management endpoint")
	rootCmd.PersistentFlags().String("token", "", "bearer token (or set THAWK_DEPLOY_TOKEN)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = &config.Config{}
	}
}
