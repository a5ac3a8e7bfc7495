package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/myimpact/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates your pull request activity and outputs as JSON",
	Long: `Aggregates authored and reviewed pull requests for a date range: counts per repository,
organizations, monthly merges, time to merge, weekly streaks and collaborators.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		application, _, _ := mustSetup(cmd)
		r := mustRange(cmd)
		org, _ := cmd.Flags().GetString("org")

		printResult(application.Stats(ctx, r, org))
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compares your activity with an earlier period",
	Long: `Compares merged pull requests, reviews and repositories between the --from/--to range
and a baseline range. Without --baseline-from/--baseline-to the baseline is the period of
the same length that ends the day before --from.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		application, _, _ := mustSetup(cmd)
		current := mustRange(cmd)
		org, _ := cmd.Flags().GetString("org")
		baselineFrom, _ := cmd.Flags().GetString("baseline-from")
		baselineTo, _ := cmd.Flags().GetString("baseline-to")

		baseline, err := resolveBaseline(current, baselineFrom, baselineTo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		printResult(application.Compare(ctx, current, baseline, org))
	},
}

// resolveBaseline returns the explicit baseline range, or the period of equal length
// immediately preceding current.
func resolveBaseline(current domain.DateRange, fromStr, toStr string) (domain.DateRange, error) {
	if fromStr != "" || toStr != "" {
		if fromStr == "" || toStr == "" {
			return domain.DateRange{}, fmt.Errorf("--baseline-from and --baseline-to must be given together")
		}
		return resolveRange(fromStr, toStr, time.Now())
	}
	start, err := time.Parse(githubDateLayout, current.Start)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := time.Parse(githubDateLayout, current.End)
	if err != nil {
		return domain.DateRange{}, err
	}
	baselineEnd := start.AddDate(0, 0, -1)
	baselineStart := baselineEnd.Add(-end.Sub(start))
	return domain.DateRange{
		Start: baselineStart.Format(githubDateLayout),
		End:   baselineEnd.Format(githubDateLayout),
	}, nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
	addRangeFlags(statsCmd)
	statsCmd.Flags().StringP("org", "o", "", "Only include authored pull requests in this organization")

	rootCmd.AddCommand(compareCmd)
	addRangeFlags(compareCmd)
	compareCmd.Flags().StringP("org", "o", "", "Only include authored pull requests in this organization")
	compareCmd.Flags().String("baseline-from", "", "Start date of the baseline period (YYYY-MM-DD)")
	compareCmd.Flags().String("baseline-to", "", "End date of the baseline period (YYYY-MM-DD)")
}
