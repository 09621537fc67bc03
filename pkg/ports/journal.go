package ports

import (
	"context"

	"github.com/aretw0/lazyfetch/pkg/domain"
)

// Journal is an append-only audit trail of cache lifecycle events.
// It records what the cache did, never response data for reuse.
type Journal interface {
	// Append adds ev to the end of the trail.
	Append(ctx context.Context, trail string, ev domain.Event) error

	// Load returns the events of a trail in append order.
	// An unknown trail yields an empty slice.
	Load(ctx context.Context, trail string) ([]domain.Event, error)

	// Delete removes a trail.
	Delete(ctx context.Context, trail string) error
}
