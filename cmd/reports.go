package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/myimpact/internal/app"
	"github.com/naka-gawa/myimpact/internal/domain"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manages saved reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists saved reports",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		application, _, _ := mustSetup(cmd)
		printResult(application.LoadReports())
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Deletes a saved report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		application, _, _ := mustSetup(cmd)
		printResult(application.DeleteReport(args[0]))
	},
}

var reportsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Saves a report from a JSON file, replacing any report with the same id",
	Long: `Reads a report object from FILE ("-" for stdin) and saves it. A report with the
same id is replaced in full; a report without an id gets a new one.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		application, _, _ := mustSetup(cmd)

		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", args[0], err)
				os.Exit(1)
			}
			defer f.Close()
			r = f
		}

		var report domain.SavedReport
		if err := json.NewDecoder(r).Decode(&report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to parse report: %v\n", err)
			os.Exit(1)
		}
		if report.ID == "" {
			report.ID = uuid.NewString()
		}
		printResult(application.SaveReport(report))
	},
}

var reportsExportCmd = &cobra.Command{
	Use:   "export ID",
	Short: "Exports a saved report as an HTML page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		application, _, _ := mustSetup(cmd)
		out, _ := cmd.Flags().GetString("out")

		result := exportReport(application, args[0], out, os.Stdout)
		if out == "" && result.OK() {
			return
		}
		printResult(result)
	},
}

// exportReport renders the report fully before touching out, so an unknown id leaves
// no file behind. An empty out writes the page to stdout.
func exportReport(application *app.App, id, out string, stdout io.Writer) domain.SaveResult {
	var page bytes.Buffer
	result := application.ExportReport(id, &page)
	if !result.OK() {
		return result
	}
	if out == "" {
		if _, err := stdout.Write(page.Bytes()); err != nil {
			msg := err.Error()
			return domain.SaveResult{Error: &msg}
		}
		return result
	}
	if err := atomic.WriteFile(out, &page); err != nil {
		msg := fmt.Sprintf("failed to write %s: %v", out, err)
		return domain.SaveResult{Error: &msg}
	}
	return result
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd, reportsDeleteCmd, reportsImportCmd, reportsExportCmd)
	reportsExportCmd.Flags().String("out", "", "Write the HTML to this file instead of stdout")
}
