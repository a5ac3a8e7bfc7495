package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/myimpact/internal/apperrors"
)

const (
	defaultSearchLimit = 30
	maxPageSize        = 100
)

// GitHubGateway answers the same "search prs" argument lists as the GitHub CLI,
// but talks to the GitHub API directly. It is used when the CLI is unavailable.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger

	// viewerMu guards viewer; Invoke is called from concurrent aggregations.
	viewerMu sync.Mutex
	viewer   string
}

// pullRequestNode holds every field any projection can ask for.
type pullRequestNode struct {
	Title     string
	URL       string `graphql:"url"`
	Body      string
	Number    int
	CreatedAt githubv4.DateTime
	ClosedAt  githubv4.DateTime
	Author    struct {
		Login string
	}
	Repository struct {
		Name          string
		NameWithOwner string
	}
}

type searchPullRequestsQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Edges []struct {
			Node struct {
				Typename    string          `graphql:"__typename"`
				PullRequest pullRequestNode `graphql:"... on PullRequest"`
			}
		}
	} `graphql:"search(query: $query, type: ISSUE, first: $first, after: $cursor)"`
}

// searchRequest is the parsed form of a "search prs" argument list.
type searchRequest struct {
	qualifiers []string
	fields     []string
	limit      int
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// Invoke runs the search described by args and returns a JSON array projected
// onto the fields requested with --json.
func (g *GitHubGateway) Invoke(ctx context.Context, args []string) ([]byte, error) {
	req, err := parseSearchArgs(args)
	if err != nil {
		return nil, &apperrors.ToolFailedError{ExitCode: 1, Stderr: err.Error()}
	}
	for i, q := range req.qualifiers {
		if strings.HasSuffix(q, ":@me") {
			login, err := g.viewerLogin(ctx)
			if err != nil {
				return nil, &apperrors.ToolFailedError{ExitCode: 1, Stderr: err.Error()}
			}
			req.qualifiers[i] = strings.TrimSuffix(q, "@me") + login
		}
	}

	nodes, err := g.searchPullRequests(ctx, strings.Join(req.qualifiers, " "), req.limit)
	if err != nil {
		return nil, &apperrors.ToolFailedError{ExitCode: 1, Stderr: err.Error()}
	}

	out := make([]map[string]any, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, project(node, req.fields))
	}
	return json.Marshal(out)
}

// viewerLogin resolves "@me" to the login of the token owner.
func (g *GitHubGateway) viewerLogin(ctx context.Context) (string, error) {
	g.viewerMu.Lock()
	defer g.viewerMu.Unlock()
	if g.viewer != "" {
		return g.viewer, nil
	}
	user, _, err := g.restClient.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to resolve authenticated user: %w", err)
	}
	g.viewer = user.GetLogin()
	return g.viewer, nil
}

func (g *GitHubGateway) searchPullRequests(ctx context.Context, query string, limit int) ([]pullRequestNode, error) {
	g.logger.Printf("Gateway: searching pull requests with query %q", query)
	variables := map[string]interface{}{
		"query":  githubv4.String(query),
		"first":  githubv4.Int(min(limit, maxPageSize)),
		"cursor": (*githubv4.String)(nil),
	}

	var nodes []pullRequestNode
	for len(nodes) < limit {
		var q searchPullRequestsQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for pull requests: %w", err)
		}
		for _, edge := range q.Search.Edges {
			if edge.Node.Typename != "PullRequest" || len(nodes) >= limit {
				continue
			}
			nodes = append(nodes, edge.Node.PullRequest)
		}
		if !q.Search.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
		variables["first"] = githubv4.Int(min(limit-len(nodes), maxPageSize))
		g.logger.Println("  Fetching next page of pull requests...")
	}
	g.logger.Printf("Gateway: found %d pull requests", len(nodes))
	return nodes, nil
}

func parseSearchArgs(args []string) (*searchRequest, error) {
	if len(args) < 2 || args[0] != "search" || args[1] != "prs" {
		return nil, fmt.Errorf("unsupported command: %s", strings.Join(args, " "))
	}
	req := &searchRequest{
		qualifiers: []string{"is:pr"},
		limit:      defaultSearchLimit,
	}
	rest := args[2:]
	for i := 0; i < len(rest); i += 2 {
		flag := rest[i]
		if i+1 >= len(rest) {
			return nil, fmt.Errorf("flag needs an argument: %s", flag)
		}
		value := rest[i+1]
		switch flag {
		case "--author":
			req.qualifiers = append(req.qualifiers, "author:"+value)
		case "--reviewed-by":
			req.qualifiers = append(req.qualifiers, "reviewed-by:"+value)
		case "--owner":
			req.qualifiers = append(req.qualifiers, "user:"+value)
		case "--merged-at":
			req.qualifiers = append(req.qualifiers, "merged:"+value)
		case "--json":
			req.fields = strings.Split(value, ",")
		case "--limit":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid value for --limit: %s", value)
			}
			req.limit = n
		default:
			return nil, fmt.Errorf("unknown flag: %s", flag)
		}
	}
	if len(req.fields) == 0 {
		return nil, fmt.Errorf("--json is required")
	}
	return req, nil
}

func project(node pullRequestNode, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		switch field {
		case "title":
			out[field] = node.Title
		case "url":
			out[field] = node.URL
		case "body":
			out[field] = node.Body
		case "number":
			out[field] = node.Number
		case "createdAt":
			out[field] = formatTime(node.CreatedAt)
		case "closedAt":
			out[field] = formatTime(node.ClosedAt)
		case "author":
			out[field] = map[string]string{"login": node.Author.Login}
		case "repository":
			out[field] = map[string]string{
				"name":          node.Repository.Name,
				"nameWithOwner": node.Repository.NameWithOwner,
			}
		}
	}
	return out
}

func formatTime(t githubv4.DateTime) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
