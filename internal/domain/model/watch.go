// Package model contains the core domain types for assignwatch.
package model

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// WatchedItem is one assigned issue under deadline tracking. URL is the
// unique key; at most one record exists per issue.
type WatchedItem struct {
	URL       string
	Deadline  time.Time
	LastCheck time.Time
	// LastReminder is the instant the reminder for the current watch cycle
	// was posted, or nil if none has been sent since the deadline last moved.
	LastReminder *time.Time
}

// ItemRef is the decomposed locator of a watched issue, used for GitHub API calls.
type ItemRef struct {
	Owner  string
	Repo   string
	Number int
}

// FullName returns the "owner/repo" form of the reference.
func (r ItemRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// URL reconstructs the canonical issue URL for the reference.
func (r ItemRef) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s/issues/%d", r.Owner, r.Repo, r.Number)
}

// ParseItemURL decomposes a canonical issue URL
// (https://github.com/{owner}/{repo}/issues/{number}) into an ItemRef.
func ParseItemURL(rawURL string) (ItemRef, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ItemRef{}, fmt.Errorf("parse item URL %q: %w", rawURL, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[2] != "issues" {
		return ItemRef{}, fmt.Errorf("item URL %q is not an issue URL", rawURL)
	}

	number, err := strconv.Atoi(parts[3])
	if err != nil || number <= 0 {
		return ItemRef{}, fmt.Errorf("item URL %q has invalid issue number", rawURL)
	}

	return ItemRef{Owner: parts[0], Repo: parts[1], Number: number}, nil
}

// ActivityEvent is a single timeline event on a watched issue.
type ActivityEvent struct {
	Actor     string
	Timestamp time.Time
}
