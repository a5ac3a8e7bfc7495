package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/myimpact/internal/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Shows or changes the saved settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Shows the saved settings with the API key masked",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		application, _, _ := mustSetup(cmd)
		result := application.LoadSettings()
		if result.OK() && result.Settings.APIKey != nil {
			masked := maskKey(*result.Settings.APIKey)
			result.Settings = &domain.AppSettings{APIKey: &masked}
		}
		printResult(result)
	},
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key KEY",
	Short: "Saves the API key used for summaries",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		application, _, _ := mustSetup(cmd)
		key := args[0]
		printResult(application.SaveSettings(&key))
	},
}

var settingsClearKeyCmd = &cobra.Command{
	Use:   "clear-key",
	Short: "Removes the saved API key",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		application, _, _ := mustSetup(cmd)
		printResult(application.SaveSettings(nil))
	},
}

// maskKey keeps the last 4 characters of an API key for display purposes.
func maskKey(key string) string {
	if len(key) < 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetKeyCmd, settingsClearKeyCmd)
}
