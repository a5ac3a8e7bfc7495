package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var orgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "Lists the organizations you merged pull requests into",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		application, _, _ := mustSetup(cmd)
		r := mustRange(cmd)

		printResult(application.FetchOrganizations(ctx, r.Start, r.End))
	},
}

func init() {
	rootCmd.AddCommand(orgsCmd)
	addRangeFlags(orgsCmd)
}
