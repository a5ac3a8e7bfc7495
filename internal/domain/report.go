package domain

// SavedReport is a persisted summary of activity. ID is the merge key of the report store.
// PRCount is stored as given and is not recomputed from PullRequests.
type SavedReport struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CreatedAt    string        `json:"created_at"`
	OrgName      string        `json:"org_name"`
	DateRange    string        `json:"date_range"`
	PRCount      int           `json:"pr_count"`
	Summary      string        `json:"summary"`
	PullRequests []PullRequest `json:"pull_requests"`
}

// AppSettings is the single per-installation settings record.
type AppSettings struct {
	APIKey *string `json:"api_key"`
}

// Key returns the stored credential or an empty string.
func (s AppSettings) Key() string {
	if s.APIKey == nil {
		return ""
	}
	return *s.APIKey
}
