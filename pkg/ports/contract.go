package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJournalContract runs a suite of tests to verify that a Journal implementation
// adheres to the defined interface contract.
func RunJournalContract(t *testing.T, journal Journal) {
	ctx := context.Background()
	trail := "contract-test-trail-" + time.Now().Format("20060102150405")

	event := func(typ domain.EventType, from, to string) domain.Event {
		return domain.Event{
			EventBase: domain.EventBase{
				Timestamp: time.Now().UTC().Truncate(time.Millisecond),
				Type:      typ,
				URL:       "http://example.test/",
			},
			From: from,
			To:   to,
		}
	}

	t.Run("Append and Load", func(t *testing.T) {
		first := event(domain.EventAdvance, "probe", "full_fetch")
		second := event(domain.EventComplete, "full_fetch", "")

		require.NoError(t, journal.Append(ctx, trail, first))
		require.NoError(t, journal.Append(ctx, trail, second))

		events, err := journal.Load(ctx, trail)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, domain.EventAdvance, events[0].Type)
		assert.Equal(t, "full_fetch", events[0].To)
		assert.Equal(t, domain.EventComplete, events[1].Type)
		assert.True(t, first.Timestamp.Equal(events[0].Timestamp))
	})

	t.Run("Load Unknown Trail", func(t *testing.T) {
		events, err := journal.Load(ctx, "unknown-"+trail)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, journal.Delete(ctx, trail))

		events, err := journal.Load(ctx, trail)
		require.NoError(t, err)
		assert.Empty(t, events, "Load after Delete should return no events")
	})
}
