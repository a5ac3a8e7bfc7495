package domain

// Result envelopes. Exactly one of the payload or Error is set.

// FetchResult carries authored pull requests.
type FetchResult struct {
	Success bool          `json:"success"`
	Data    []PullRequest `json:"data"`
	Error   *string       `json:"error"`
}

// ReviewedResult carries reviewed pull requests.
type ReviewedResult struct {
	Success bool                  `json:"success"`
	Data    []ReviewedPullRequest `json:"data"`
	Error   *string               `json:"error"`
}

// OrganizationsResult carries organization names.
type OrganizationsResult struct {
	Success       bool     `json:"success"`
	Organizations []string `json:"organizations"`
	Error         *string  `json:"error"`
}

// AiResult carries a generated summary.
type AiResult struct {
	Success bool    `json:"success"`
	Summary *string `json:"summary"`
	Error   *string `json:"error"`
}

// SaveResult reports the outcome of a mutation.
type SaveResult struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
}

// LoadReportsResult carries saved reports.
type LoadReportsResult struct {
	Success bool          `json:"success"`
	Reports []SavedReport `json:"reports"`
	Error   *string       `json:"error"`
}

// LoadSettingsResult carries the settings record.
type LoadSettingsResult struct {
	Success  bool         `json:"success"`
	Settings *AppSettings `json:"settings"`
	Error    *string      `json:"error"`
}

// StatsResult carries aggregated statistics.
type StatsResult struct {
	Success bool           `json:"success"`
	Stats   *ActivityStats `json:"stats"`
	Error   *string        `json:"error"`
}

// CompareResult carries a period comparison.
type CompareResult struct {
	Success    bool        `json:"success"`
	Comparison *Comparison `json:"comparison"`
	Error      *string     `json:"error"`
}

// Envelope is implemented by every result type.
type Envelope interface {
	OK() bool
}

func (r FetchResult) OK() bool         { return r.Success }
func (r ReviewedResult) OK() bool      { return r.Success }
func (r OrganizationsResult) OK() bool { return r.Success }
func (r AiResult) OK() bool            { return r.Success }
func (r SaveResult) OK() bool          { return r.Success }
func (r LoadReportsResult) OK() bool   { return r.Success }
func (r LoadSettingsResult) OK() bool  { return r.Success }
func (r StatsResult) OK() bool         { return r.Success }
func (r CompareResult) OK() bool       { return r.Success }
