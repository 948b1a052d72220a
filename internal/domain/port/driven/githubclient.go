package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/assignwatch/internal/domain/model"
)

// GitHubClient defines the driven port for interacting with the GitHub API.
// Read methods supply the activity signal and assignee set; write methods
// execute the engine's escalation decisions.
type GitHubClient interface {
	// FetchActivity returns timeline events for the issue with a timestamp at
	// or after since. Events are not filtered by actor; the caller decides
	// which actors qualify.
	FetchActivity(ctx context.Context, ref model.ItemRef, since time.Time) ([]model.ActivityEvent, error)
	// FetchAssignees returns the logins currently assigned to the issue.
	FetchAssignees(ctx context.Context, ref model.ItemRef) ([]string, error)
	// CreateComment posts a comment on the issue.
	CreateComment(ctx context.Context, ref model.ItemRef, body string) error
	// RemoveAssignees removes the given logins from the issue.
	RemoveAssignees(ctx context.Context, ref model.ItemRef, assignees []string) error
}
