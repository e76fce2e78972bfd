package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the abbreviation table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadCompressor(rulesPath)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Term", "Abbreviation"})
			table.SetBorder(false)
			table.SetColumnSeparator("  ")
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoFormatHeaders(false)
			for _, r := range c.Rules() {
				table.Append([]string{r.FullTerm, r.Abbreviation})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file replacing the built-in table")
	return cmd
}
