// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "myimpact",
	Short: "A CLI tool to collect your merged and reviewed pull requests and summarize them.",
	Long: `myimpact collects the pull requests you merged and reviewed over a date range,
optionally scoped to one organization, and can turn them into a self-review
summary using a language model. Summaries are saved as reports under ~/.myimpact.

Pull requests are queried through the GitHub CLI (gh) by default, or through the
GitHub API with GITHUB_TOKEN when the backend is set to "api".`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default ~/.myimpact/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding settings and reports (default ~/.myimpact)")
	rootCmd.PersistentFlags().String("backend", "", `How pull requests are queried: "cli" or "api"`)
}
