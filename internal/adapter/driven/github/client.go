// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/assignwatch/internal/domain/model"
	"github.com/ericfisherdev/assignwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchActivity retrieves timeline events for the given issue with a
// timestamp at or after since. It handles pagination automatically and maps
// go-github types to domain model types. Events without an actor or
// timestamp (e.g. some cross-referenced events) are skipped.
func (c *Client) FetchActivity(ctx context.Context, ref model.ItemRef, since time.Time) ([]model.ActivityEvent, error) {
	opts := &gh.ListOptions{PerPage: 100}

	var events []model.ActivityEvent

	for {
		timeline, resp, err := c.gh.Issues.ListIssueTimeline(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing timeline for %s#%d (page %d): %w", ref.FullName(), ref.Number, opts.Page, err)
		}

		logRateLimit(resp, ref.FullName()+"/timeline", opts.Page, len(timeline))

		for _, ev := range timeline {
			actor := ev.GetActor().GetLogin()
			ts := ev.GetCreatedAt().Time
			if actor == "" || ts.IsZero() {
				continue
			}
			if ts.Before(since) {
				continue
			}
			events = append(events, model.ActivityEvent{Actor: actor, Timestamp: ts})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return events, nil
}

// FetchAssignees returns the logins currently assigned to the given issue.
func (c *Client) FetchAssignees(ctx context.Context, ref model.ItemRef) ([]string, error) {
	issue, resp, err := c.gh.Issues.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s#%d: %w", ref.FullName(), ref.Number, err)
	}

	logRateLimit(resp, ref.FullName()+"/issue", 0, 1)

	assignees := make([]string, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		if login := a.GetLogin(); login != "" {
			assignees = append(assignees, login)
		}
	}

	return assignees, nil
}

// CreateComment posts a comment on the given issue.
func (c *Client) CreateComment(ctx context.Context, ref model.ItemRef, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, ref.Owner, ref.Repo, ref.Number, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("creating comment on %s#%d: %w", ref.FullName(), ref.Number, err)
	}

	return nil
}

// RemoveAssignees removes the given logins from the issue.
func (c *Client) RemoveAssignees(ctx context.Context, ref model.ItemRef, assignees []string) error {
	_, _, err := c.gh.Issues.RemoveAssignees(ctx, ref.Owner, ref.Repo, ref.Number, assignees)
	if err != nil {
		return fmt.Errorf("removing assignees from %s#%d: %w", ref.FullName(), ref.Number, err)
	}

	return nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
