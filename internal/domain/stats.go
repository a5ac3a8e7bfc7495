// Package domain contains the core data structures and domain logic for the application.
package domain

// RepoStats holds the activity counts for a single repository.
type RepoStats struct {
	Name        string `json:"name"`
	MergedPRs   int    `json:"merged_prs"`
	ReviewedPRs int    `json:"reviewed_prs"`
}

// MonthlyCount is the number of pull requests merged in one calendar month ("2006-01").
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// MergeTimeStats describes how long authored pull requests stayed open, in hours.
type MergeTimeStats struct {
	Samples     int     `json:"samples"`
	MeanHours   float64 `json:"mean_hours"`
	MedianHours float64 `json:"median_hours"`
	P90Hours    float64 `json:"p90_hours"`
}

// ActivityStats is the aggregated view of a developer's activity over a date range.
type ActivityStats struct {
	MergedPRs           int             `json:"merged_prs"`
	ReviewedPRs         int             `json:"reviewed_prs"`
	Repositories        []*RepoStats    `json:"repositories"`
	Organizations       []string        `json:"organizations"`
	Monthly             []MonthlyCount  `json:"monthly"`
	TimeToMerge         *MergeTimeStats `json:"time_to_merge,omitempty"`
	LongestWeeklyStreak int             `json:"longest_weekly_streak"`
	CurrentWeeklyStreak int             `json:"current_weekly_streak"`
	Collaborators       int             `json:"collaborators"`
}

// DateRange is an inclusive range of ISO dates ("2006-01-02").
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// String renders the range the way reports and prompts label it.
func (r DateRange) String() string {
	return r.Start + " to " + r.End
}

// Metric compares a single value between two periods.
// ChangePercent is nil when the baseline is zero.
type Metric struct {
	Label         string   `json:"label"`
	Current       int      `json:"current"`
	Baseline      int      `json:"baseline"`
	ChangePercent *float64 `json:"change_percent"`
}

// Comparison is the result of comparing two date ranges.
type Comparison struct {
	Current       DateRange      `json:"current"`
	Baseline      DateRange      `json:"baseline"`
	Metrics       []Metric       `json:"metrics"`
	CurrentStats  *ActivityStats `json:"current_stats"`
	BaselineStats *ActivityStats `json:"baseline_stats"`
}
