// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"

	"github.com/naka-gawa/myimpact/internal/apperrors"
	"github.com/naka-gawa/myimpact/internal/domain"
	"github.com/naka-gawa/myimpact/internal/gateway"
)

const (
	organizationsLimit = "100"
	activityLimit      = "200"

	pullRequestFields = "title,url,body,closedAt,createdAt,number,repository"
	reviewedFields    = "title,url,closedAt,createdAt,author,repository"
)

// ActivityFetcher turns gateway output into typed pull request records.
type ActivityFetcher struct {
	invoker gateway.Invoker
	logger  *log.Logger
}

// NewActivityFetcher creates a new ActivityFetcher instance.
func NewActivityFetcher(invoker gateway.Invoker, logger *log.Logger) *ActivityFetcher {
	return &ActivityFetcher{
		invoker: invoker,
		logger:  logger,
	}
}

// OrganizationsArgs builds the query for the repositories of merged pull requests authored by the caller.
func OrganizationsArgs(start, end string) []string {
	return []string{
		"search", "prs",
		"--author", "@me",
		"--merged-at", mergedRange(start, end),
		"--json", "repository",
		"--limit", organizationsLimit,
	}
}

// ActivityArgs builds the query for merged pull requests authored by the caller.
// A non-empty org adds an owner filter right after the author filter.
func ActivityArgs(start, end, org string) []string {
	args := []string{
		"search", "prs",
		"--author", "@me",
		"--merged-at", mergedRange(start, end),
		"--json", pullRequestFields,
		"--limit", activityLimit,
	}
	if org != "" {
		args = slices.Insert(args, 4, "--owner", org)
	}
	return args
}

// ReviewedArgs builds the query for merged pull requests reviewed by the caller.
func ReviewedArgs(start, end string) []string {
	return []string{
		"search", "prs",
		"--reviewed-by", "@me",
		"--merged-at", mergedRange(start, end),
		"--json", reviewedFields,
		"--limit", activityLimit,
	}
}

func mergedRange(start, end string) string {
	return start + ".." + end
}

// ListOrganizations returns the sorted, distinct owners of repositories the caller
// merged pull requests into.
func (f *ActivityFetcher) ListOrganizations(ctx context.Context, start, end string) ([]string, error) {
	f.logger.Println("Usecase: Listing organizations...")
	var prs []struct {
		Repository domain.Repository `json:"repository"`
	}
	if err := f.query(ctx, OrganizationsArgs(start, end), &prs); err != nil {
		return nil, err
	}

	orgs := make([]string, 0, len(prs))
	for _, pr := range prs {
		if owner := pr.Repository.Owner(); owner != "" {
			orgs = append(orgs, owner)
		}
	}
	slices.Sort(orgs)
	orgs = slices.Compact(orgs)

	f.logger.Printf("Usecase: Found %d organizations.", len(orgs))
	return orgs, nil
}

// FetchActivity returns merged pull requests authored by the caller, in upstream order.
func (f *ActivityFetcher) FetchActivity(ctx context.Context, start, end, org string) ([]domain.PullRequest, error) {
	f.logger.Println("Usecase: Fetching authored pull requests...")
	prs := []domain.PullRequest{}
	if err := f.query(ctx, ActivityArgs(start, end, org), &prs); err != nil {
		return nil, err
	}
	if prs == nil {
		prs = []domain.PullRequest{}
	}
	f.logger.Printf("Usecase: Fetched %d authored pull requests.", len(prs))
	return prs, nil
}

// FetchReviewed returns merged pull requests reviewed by the caller, in upstream order.
func (f *ActivityFetcher) FetchReviewed(ctx context.Context, start, end string) ([]domain.ReviewedPullRequest, error) {
	f.logger.Println("Usecase: Fetching reviewed pull requests...")
	prs := []domain.ReviewedPullRequest{}
	if err := f.query(ctx, ReviewedArgs(start, end), &prs); err != nil {
		return nil, err
	}
	if prs == nil {
		prs = []domain.ReviewedPullRequest{}
	}
	f.logger.Printf("Usecase: Fetched %d reviewed pull requests.", len(prs))
	return prs, nil
}

func (f *ActivityFetcher) query(ctx context.Context, args []string, v any) error {
	raw, err := f.invoker.Invoke(ctx, args)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w GitHub response: %v", apperrors.ErrParse, err)
	}
	return nil
}
