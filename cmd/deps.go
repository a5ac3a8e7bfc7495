package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/myimpact/internal/app"
	"github.com/naka-gawa/myimpact/internal/config"
	"github.com/naka-gawa/myimpact/internal/domain"
	"github.com/naka-gawa/myimpact/internal/gateway"
	"github.com/naka-gawa/myimpact/internal/llm"
	"github.com/naka-gawa/myimpact/internal/usecase"
)

const (
	githubDateLayout = "2006-01-02"
	inputDateLayout  = "2006/01/02"
)

// newLogger discards everything unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if verbose {
		logger.SetOutput(os.Stderr) // If verbose, log to standard error.
	}
	return logger
}

// loadConfig reads the config file and applies the root flags on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	dir, _ := cmd.Flags().GetString("data-dir")
	cfg, err := config.Load(path, dir)
	if err != nil {
		return nil, err
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newInvoker builds the pull request source selected by cfg.Backend.
func newInvoker(cfg *config.Config, logger *log.Logger) (gateway.Invoker, error) {
	if cfg.Backend == config.BackendAPI {
		return gateway.NewGitHubGateway(cfg.GitHubToken, logger)
	}
	var candidates []string
	if cfg.GHPath != "" {
		candidates = []string{cfg.GHPath}
	}
	return gateway.NewCLIGateway(gateway.NewPathLocator(gateway.DefaultProgram, candidates), logger), nil
}

// newCompleterFactory returns a factory for the configured summarization provider.
func newCompleterFactory(cfg *config.Config, logger *log.Logger) usecase.CompleterFactory {
	return func(apiKey string) usecase.Completer {
		if cfg.Provider == config.ProviderAnthropic {
			return llm.NewAnthropic(apiKey, cfg.Model, cfg.BaseURL, logger)
		}
		return llm.NewOpenAI(apiKey, cfg.Model, cfg.BaseURL, logger)
	}
}

// mustSetup resolves configuration once and wires the application, exiting on failure.
func mustSetup(cmd *cobra.Command) (*app.App, *config.Config, *log.Logger) {
	logger := newLogger(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	invoker, err := newInvoker(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
		os.Exit(1)
	}
	logger.Printf("Using data directory %s, backend %s, provider %s", cfg.DataDir, cfg.Backend, cfg.Provider)
	return app.New(invoker, newCompleterFactory(cfg, logger), cfg.DataDir, logger), cfg, logger
}

// parseDate accepts YYYY-MM-DD or YYYY/MM/DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(githubDateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(inputDateLayout, s)
}

// resolveRange turns --from/--to into an ISO date range. The default is the last six months.
func resolveRange(fromStr, toStr string, now time.Time) (domain.DateRange, error) {
	to := now
	if toStr != "" {
		t, err := parseDate(toStr)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid --to date %q, use YYYY-MM-DD", toStr)
		}
		to = t
	}
	from := to.AddDate(0, -6, 0)
	if fromStr != "" {
		t, err := parseDate(fromStr)
		if err != nil {
			return domain.DateRange{}, fmt.Errorf("invalid --from date %q, use YYYY-MM-DD", fromStr)
		}
		from = t
	}
	if from.After(to) {
		return domain.DateRange{}, fmt.Errorf("--from %s is after --to %s", from.Format(githubDateLayout), to.Format(githubDateLayout))
	}
	return domain.DateRange{Start: from.Format(githubDateLayout), End: to.Format(githubDateLayout)}, nil
}

func mustRange(cmd *cobra.Command) domain.DateRange {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	r, err := resolveRange(fromStr, toStr, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return r
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Start date (YYYY-MM-DD, default six months before --to)")
	cmd.Flags().String("to", "", "End date (YYYY-MM-DD, default today)")
}

// printResult writes the envelope as indented JSON and exits with status 1 on failure.
func printResult(result domain.Envelope) {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
	if !result.OK() {
		os.Exit(1)
	}
}
