// Package app is the operation boundary used by the command line: every method
// returns a result envelope and never an error.
package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/naka-gawa/myimpact/internal/domain"
	"github.com/naka-gawa/myimpact/internal/export"
	"github.com/naka-gawa/myimpact/internal/gateway"
	"github.com/naka-gawa/myimpact/internal/store"
	"github.com/naka-gawa/myimpact/internal/usecase"
)

// App wires the use cases and stores together.
type App struct {
	activity   *usecase.ActivityFetcher
	aggregator *usecase.Aggregator
	summaries  *usecase.SummaryGenerator
	reports    *store.ReportStore
	settings   *store.SettingsStore
	logger     *log.Logger
}

// New creates an App. dataDir is resolved once by the caller and shared by both stores.
func New(invoker gateway.Invoker, completers usecase.CompleterFactory, dataDir string, logger *log.Logger) *App {
	activity := usecase.NewActivityFetcher(invoker, logger)
	return &App{
		activity:   activity,
		aggregator: usecase.NewAggregator(activity, logger),
		summaries:  usecase.NewSummaryGenerator(completers, logger),
		reports:    store.NewReportStore(dataDir, logger),
		settings:   store.NewSettingsStore(dataDir, logger),
		logger:     logger,
	}
}

func errorMessage(err error) *string {
	msg := err.Error()
	return &msg
}

// FetchOrganizations lists the organizations the caller merged pull requests into.
func (a *App) FetchOrganizations(ctx context.Context, start, end string) domain.OrganizationsResult {
	orgs, err := a.activity.ListOrganizations(ctx, start, end)
	if err != nil {
		return domain.OrganizationsResult{Error: errorMessage(err)}
	}
	return domain.OrganizationsResult{Success: true, Organizations: orgs}
}

// FetchGitHubActivity lists merged pull requests authored by the caller.
func (a *App) FetchGitHubActivity(ctx context.Context, start, end, org string) domain.FetchResult {
	prs, err := a.activity.FetchActivity(ctx, start, end, org)
	if err != nil {
		return domain.FetchResult{Error: errorMessage(err)}
	}
	return domain.FetchResult{Success: true, Data: prs}
}

// FetchReviewedPRs lists merged pull requests reviewed by the caller.
func (a *App) FetchReviewedPRs(ctx context.Context, start, end string) domain.ReviewedResult {
	prs, err := a.activity.FetchReviewed(ctx, start, end)
	if err != nil {
		return domain.ReviewedResult{Error: errorMessage(err)}
	}
	return domain.ReviewedResult{Success: true, Data: prs}
}

// GenerateSummary writes a self-review narrative for prs.
func (a *App) GenerateSummary(ctx context.Context, apiKey string, prs []domain.PullRequest, dateRange, org string) domain.AiResult {
	summary, err := a.summaries.Summarize(ctx, apiKey, prs, dateRange, org)
	if err != nil {
		return domain.AiResult{Error: errorMessage(err)}
	}
	return domain.AiResult{Success: true, Summary: &summary}
}

// Stats aggregates activity statistics for a date range.
func (a *App) Stats(ctx context.Context, r domain.DateRange, org string) domain.StatsResult {
	result, err := a.aggregator.Aggregate(ctx, r, org)
	if err != nil {
		return domain.StatsResult{Error: errorMessage(err)}
	}
	return domain.StatsResult{Success: true, Stats: result}
}

// Compare compares activity between two date ranges.
func (a *App) Compare(ctx context.Context, current, baseline domain.DateRange, org string) domain.CompareResult {
	result, err := a.aggregator.Compare(ctx, current, baseline, org)
	if err != nil {
		return domain.CompareResult{Error: errorMessage(err)}
	}
	return domain.CompareResult{Success: true, Comparison: result}
}

// SaveSettings overwrites the settings record.
func (a *App) SaveSettings(apiKey *string) domain.SaveResult {
	if err := a.settings.Save(domain.AppSettings{APIKey: apiKey}); err != nil {
		return domain.SaveResult{Error: errorMessage(err)}
	}
	return domain.SaveResult{Success: true}
}

// LoadSettings returns the settings record.
func (a *App) LoadSettings() domain.LoadSettingsResult {
	settings, err := a.settings.Load()
	if err != nil {
		return domain.LoadSettingsResult{Error: errorMessage(err)}
	}
	return domain.LoadSettingsResult{Success: true, Settings: &settings}
}

// SaveReport inserts or replaces a report by ID.
func (a *App) SaveReport(report domain.SavedReport) domain.SaveResult {
	if err := a.reports.Upsert(report); err != nil {
		return domain.SaveResult{Error: errorMessage(err)}
	}
	return domain.SaveResult{Success: true}
}

// LoadReports returns every saved report.
func (a *App) LoadReports() domain.LoadReportsResult {
	reports, err := a.reports.List()
	if err != nil {
		return domain.LoadReportsResult{Error: errorMessage(err)}
	}
	return domain.LoadReportsResult{Success: true, Reports: reports}
}

// DeleteReport removes a report by ID.
func (a *App) DeleteReport(id string) domain.SaveResult {
	if err := a.reports.Delete(id); err != nil {
		return domain.SaveResult{Error: errorMessage(err)}
	}
	return domain.SaveResult{Success: true}
}

// ExportReport writes the report with the given ID as HTML to w.
func (a *App) ExportReport(id string, w io.Writer) domain.SaveResult {
	report, found, err := a.reports.Get(id)
	if err != nil {
		return domain.SaveResult{Error: errorMessage(err)}
	}
	if !found {
		return domain.SaveResult{Error: errorMessage(fmt.Errorf("report %q not found", id))}
	}
	if err := export.WriteHTML(w, report); err != nil {
		return domain.SaveResult{Error: errorMessage(err)}
	}
	return domain.SaveResult{Success: true}
}
