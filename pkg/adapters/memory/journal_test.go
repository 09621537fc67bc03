package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/lazyfetch/pkg/adapters/memory"
	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryJournal_Contract(t *testing.T) {
	journal := memory.NewJournal()
	ports.RunJournalContract(t, journal)
}

func TestMemoryJournal_LoadIsDetached(t *testing.T) {
	journal := memory.NewJournal()
	ctx := context.Background()

	idx := 1
	require.NoError(t, journal.Append(ctx, "t", domain.Event{From: "probe", Condition: &idx}))
	idx = 7

	events, err := journal.Load(ctx, "t")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Condition)
	assert.Equal(t, 1, *events[0].Condition)

	events[0].From = "changed"
	again, err := journal.Load(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "probe", again[0].From)
}
