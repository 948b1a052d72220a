// Package driven defines the outbound port interfaces implemented by adapters.
package driven

import (
	"context"

	"github.com/ericfisherdev/assignwatch/internal/domain/model"
)

// WatchStore defines the driven port for watched item persistence.
// Records are keyed uniquely by item URL.
type WatchStore interface {
	Upsert(ctx context.Context, item model.WatchedItem) error
	// GetByURL returns nil, nil when no watch exists for the URL.
	GetByURL(ctx context.Context, url string) (*model.WatchedItem, error)
	ListAll(ctx context.Context) ([]model.WatchedItem, error)
	Delete(ctx context.Context, url string) error
}
