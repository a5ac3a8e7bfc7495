package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Lists the pull requests you authored and merged",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		application, _, _ := mustSetup(cmd)
		r := mustRange(cmd)
		org, _ := cmd.Flags().GetString("org")

		printResult(application.FetchGitHubActivity(ctx, r.Start, r.End, org))
	},
}

var reviewedCmd = &cobra.Command{
	Use:   "reviewed",
	Short: "Lists the merged pull requests you reviewed",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		application, _, _ := mustSetup(cmd)
		r := mustRange(cmd)

		printResult(application.FetchReviewedPRs(ctx, r.Start, r.End))
	},
}

func init() {
	rootCmd.AddCommand(activityCmd)
	addRangeFlags(activityCmd)
	activityCmd.Flags().StringP("org", "o", "", "Only include pull requests in repositories owned by this organization")

	rootCmd.AddCommand(reviewedCmd)
	addRangeFlags(reviewedCmd)
}
