package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/myimpact/internal/domain"
)

const allOrganizations = "All Organizations"

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Writes a self-review summary of your merged pull requests",
	Long: `Fetches the pull requests you merged in the date range and asks the configured
language model for a first-person self-review. The API key comes from --api-key or
from the saved settings (see "myimpact settings set-key"). With --save-as the summary
is stored as a new report.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		application, _, logger := mustSetup(cmd)
		r := mustRange(cmd)
		org, _ := cmd.Flags().GetString("org")
		saveAs, _ := cmd.Flags().GetString("save-as")

		apiKey, _ := cmd.Flags().GetString("api-key")
		if apiKey == "" {
			settings := application.LoadSettings()
			if !settings.OK() {
				printResult(settings)
			}
			apiKey = settings.Settings.Key()
		}

		activity := application.FetchGitHubActivity(ctx, r.Start, r.End, org)
		if !activity.OK() {
			printResult(activity)
		}

		orgLabel := org
		if orgLabel == "" {
			orgLabel = allOrganizations
		}
		result := application.GenerateSummary(ctx, apiKey, activity.Data, r.String(), orgLabel)
		if result.OK() && saveAs != "" {
			report := domain.SavedReport{
				ID:           uuid.NewString(),
				Name:         saveAs,
				CreatedAt:    time.Now().UTC().Format(time.RFC3339),
				OrgName:      orgLabel,
				DateRange:    r.String(),
				PRCount:      len(activity.Data),
				Summary:      *result.Summary,
				PullRequests: activity.Data,
			}
			if saved := application.SaveReport(report); !saved.OK() {
				printResult(saved)
			}
			logger.Printf("Saved report %s", report.ID)
			fmt.Fprintf(os.Stderr, "Saved report %q as %s\n", saveAs, report.ID)
		}
		printResult(result)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addRangeFlags(summaryCmd)
	summaryCmd.Flags().StringP("org", "o", "", "Only include pull requests in this organization")
	summaryCmd.Flags().String("api-key", "", "API key for the summarization service (default: saved settings)")
	summaryCmd.Flags().String("save-as", "", "Save the summary as a report with this name")
}
