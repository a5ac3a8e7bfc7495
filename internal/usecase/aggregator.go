package usecase

import (
	"context"
	"log"
	"slices"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/myimpact/internal/domain"
)

// ActivitySource is the subset of ActivityFetcher the Aggregator needs.
type ActivitySource interface {
	FetchActivity(ctx context.Context, start, end, org string) ([]domain.PullRequest, error)
	FetchReviewed(ctx context.Context, start, end string) ([]domain.ReviewedPullRequest, error)
}

// Aggregator is the use case for aggregating GitHub stats.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	source ActivitySource
	logger *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(source ActivitySource, logger *log.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		logger: logger,
	}
}

// Aggregate fetches authored and reviewed pull requests concurrently and computes statistics.
func (a *Aggregator) Aggregate(ctx context.Context, r domain.DateRange, org string) (*domain.ActivityStats, error) {
	a.logger.Printf("Usecase: Starting data aggregation for %s...", r)

	var authored []domain.PullRequest
	var reviewed []domain.ReviewedPullRequest

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		authored, err = a.source.FetchActivity(egCtx, r.Start, r.End, org)
		return err
	})
	eg.Go(func() error {
		var err error
		reviewed, err = a.source.FetchReviewed(egCtx, r.Start, r.End)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	a.logger.Println("Usecase: All data fetched successfully.")

	result := BuildStats(authored, reviewed)
	a.logger.Println("Usecase: Aggregation complete.")
	return result, nil
}

// Compare aggregates two date ranges concurrently and reports the change between them.
func (a *Aggregator) Compare(ctx context.Context, current, baseline domain.DateRange, org string) (*domain.Comparison, error) {
	var currentStats, baselineStats *domain.ActivityStats

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		currentStats, err = a.Aggregate(egCtx, current, org)
		return err
	})
	eg.Go(func() error {
		var err error
		baselineStats, err = a.Aggregate(egCtx, baseline, org)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &domain.Comparison{
		Current:  current,
		Baseline: baseline,
		Metrics: []domain.Metric{
			newMetric("PRs merged", currentStats.MergedPRs, baselineStats.MergedPRs),
			newMetric("PRs reviewed", currentStats.ReviewedPRs, baselineStats.ReviewedPRs),
			newMetric("Repositories", len(currentStats.Repositories), len(baselineStats.Repositories)),
		},
		CurrentStats:  currentStats,
		BaselineStats: baselineStats,
	}, nil
}

func newMetric(label string, current, baseline int) domain.Metric {
	m := domain.Metric{Label: label, Current: current, Baseline: baseline}
	if baseline != 0 {
		change := float64(current-baseline) / float64(baseline) * 100
		m.ChangePercent = &change
	}
	return m
}

// BuildStats computes ActivityStats from already fetched pull requests.
// Timestamps that fail to parse are treated as absent.
func BuildStats(authored []domain.PullRequest, reviewed []domain.ReviewedPullRequest) *domain.ActivityStats {
	statsMap := make(map[string]*domain.RepoStats)
	ensureRepoStat := func(repo domain.Repository) *domain.RepoStats {
		key := repo.NameWithOwner
		if _, ok := statsMap[key]; !ok {
			statsMap[key] = &domain.RepoStats{Name: key}
		}
		return statsMap[key]
	}

	var orgs []string
	monthly := make(map[string]int)
	var mergeHours []float64
	var mergedDays []time.Time
	for _, pr := range authored {
		ensureRepoStat(pr.Repository).MergedPRs++
		if owner := pr.Repository.Owner(); owner != "" {
			orgs = append(orgs, owner)
		}
		closed, ok := parseTime(pr.ClosedAt)
		if !ok {
			continue
		}
		monthly[closed.Format("2006-01")]++
		mergedDays = append(mergedDays, closed)
		if pr.CreatedAt == nil {
			continue
		}
		if created, ok := parseTime(*pr.CreatedAt); ok {
			mergeHours = append(mergeHours, closed.Sub(created).Hours())
		}
	}

	collaborators := make(map[string]struct{})
	for _, pr := range reviewed {
		ensureRepoStat(pr.Repository).ReviewedPRs++
		if pr.Author.Login != "" {
			collaborators[pr.Author.Login] = struct{}{}
		}
	}

	// Convert the map to a slice and sort it by repository name for consistent output.
	repos := make([]*domain.RepoStats, 0, len(statsMap))
	for _, repoStat := range statsMap {
		repos = append(repos, repoStat)
	}
	sort.Slice(repos, func(i, j int) bool {
		return repos[i].Name < repos[j].Name
	})

	slices.Sort(orgs)
	orgs = slices.Compact(orgs)
	if orgs == nil {
		orgs = []string{}
	}

	months := make([]domain.MonthlyCount, 0, len(monthly))
	for month, count := range monthly {
		months = append(months, domain.MonthlyCount{Month: month, Count: count})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})

	longest, current := weeklyStreaks(mergedDays)
	return &domain.ActivityStats{
		MergedPRs:           len(authored),
		ReviewedPRs:         len(reviewed),
		Repositories:        repos,
		Organizations:       orgs,
		Monthly:             months,
		TimeToMerge:         mergeTimeStats(mergeHours),
		LongestWeeklyStreak: longest,
		CurrentWeeklyStreak: current,
		Collaborators:       len(collaborators),
	}
}

func parseTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func mergeTimeStats(hours []float64) *domain.MergeTimeStats {
	if len(hours) == 0 {
		return nil
	}
	// The inputs are non-empty, so these calls cannot fail.
	mean, _ := stats.Mean(hours)
	median, _ := stats.Median(hours)
	p90, _ := stats.Percentile(hours, 90)
	return &domain.MergeTimeStats{
		Samples:     len(hours),
		MeanHours:   mean,
		MedianHours: median,
		P90Hours:    p90,
	}
}

// weeklyStreaks counts runs of consecutive weeks (starting Sunday, UTC) with at least one merge.
// current is the run that ends at the latest active week.
func weeklyStreaks(days []time.Time) (longest, current int) {
	if len(days) == 0 {
		return 0, 0
	}
	seen := make(map[time.Time]struct{})
	var weeks []time.Time
	for _, d := range days {
		d = d.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		week := day.AddDate(0, 0, -int(day.Weekday()))
		if _, ok := seen[week]; !ok {
			seen[week] = struct{}{}
			weeks = append(weeks, week)
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	longest, current = 1, 1
	for i := 1; i < len(weeks); i++ {
		if weeks[i].Sub(weeks[i-1]) <= 7*24*time.Hour {
			current++
		} else {
			current = 1
		}
		longest = max(longest, current)
	}
	return longest, current
}
