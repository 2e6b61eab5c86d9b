package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/thawk-deploy/pkg/output"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the workspace content catalog",
}

var catalogSolutionsCmd = &cobra.Command{
	Use:     "solutions",
	Aliases: []string{"packages"},
	Short:   "List installable content packages",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, api, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}

		entries, err := api.ListPackages(cmd.Context())
		if err != nil {
			return err
		}

		if format, _ := cmd.Flags().GetString("output"); format == "json" {
			return output.JSON(entries)
		}
		if len(entries) == 0 {
			output.Info("Catalog has no content packages")
			return nil
		}

		table := output.NewTable([]string{"Display Name", "Version", "Content ID"})
		for _, e := range entries {
			table.AddRow([]string{e.DisplayName, e.Version, e.ContentID})
		}
		table.Render()
		return nil
	},
}

var catalogRulesCmd = &cobra.Command{
	Use:     "rules",
	Aliases: []string{"templates"},
	Short:   "List detection-rule templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, api, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}

		templates, err := api.ListRuleTemplates(cmd.Context())
		if err != nil {
			return err
		}

		if format, _ := cmd.Flags().GetString("output"); format == "json" {
			return output.JSON(templates)
		}
		if len(templates) == 0 {
			output.Info("Catalog has no rule templates")
			return nil
		}

		table := output.NewTable([]string{"Display Name", "Severity", "Version", "Deprecated"})
		for i := range templates {
			t := &templates[i]
			table.AddRow([]string{
				t.DisplayName,
				string(t.Severity),
				t.Version,
				strconv.FormatBool(t.IsDeprecated()),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogSolutionsCmd)
	catalogCmd.AddCommand(catalogRulesCmd)
}
