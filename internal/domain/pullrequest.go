package domain

import "strings"

// Repository identifies a repository. NameWithOwner ("owner/name") is canonical.
type Repository struct {
	Name          string `json:"name"`
	NameWithOwner string `json:"nameWithOwner"`
}

// Owner returns the organization or user part of NameWithOwner.
func (r Repository) Owner() string {
	owner, _, _ := strings.Cut(r.NameWithOwner, "/")
	return owner
}

// Author is the login of a pull request author.
type Author struct {
	Login string `json:"login"`
}

// PullRequest is a merged pull request authored by the current user.
type PullRequest struct {
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Body       *string    `json:"body"`
	ClosedAt   string     `json:"closedAt"`
	CreatedAt  *string    `json:"createdAt,omitempty"`
	Number     *int       `json:"number,omitempty"`
	Repository Repository `json:"repository"`
}

// ReviewedPullRequest is a pull request reviewed by the current user.
// The upstream query projects a different field set than PullRequest,
// so the two shapes are kept apart on purpose.
type ReviewedPullRequest struct {
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	ClosedAt   *string    `json:"closedAt"`
	CreatedAt  string     `json:"createdAt"`
	Author     Author     `json:"author"`
	Repository Repository `json:"repository"`
}
