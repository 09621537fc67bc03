package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/lazyfetch/pkg/domain"
)

// Journal implements ports.Journal in memory.
// Safe for concurrent use.
type Journal struct {
	trails map[string][]domain.Event
	mu     sync.RWMutex
}

// NewJournal creates a new in-memory journal.
func NewJournal() *Journal {
	return &Journal{
		trails: make(map[string][]domain.Event),
	}
}

// Append adds the event to the trail.
func (j *Journal) Append(ctx context.Context, trail string, ev domain.Event) error {
	if ev.Condition != nil {
		idx := *ev.Condition
		ev.Condition = &idx
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.trails[trail] = append(j.trails[trail], ev)
	return nil
}

// Load returns a copy of the trail so callers can't mutate journal state.
func (j *Journal) Load(ctx context.Context, trail string) ([]domain.Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	events := slices.Clone(j.trails[trail])
	if events == nil {
		return []domain.Event{}, nil
	}
	return events, nil
}

// Delete removes the trail.
func (j *Journal) Delete(ctx context.Context, trail string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.trails, trail)
	return nil
}
