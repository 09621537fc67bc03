package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/lazyfetch/pkg/adapters/redis"
	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisJournal_Contract(t *testing.T) {
	_, client := newClient(t)

	journal := redis.NewFromClient(client)
	ports.RunJournalContract(t, journal)
}

func TestRedisJournal_PrefixAndTTL(t *testing.T) {
	mr, client := newClient(t)

	journal := redis.NewFromClient(client, redis.WithPrefix("test:"), redis.WithTTL(time.Minute))
	ctx := context.Background()

	idx := 2
	ev := domain.Event{
		EventBase: domain.EventBase{Type: domain.EventInterrupt, URL: "http://example.test/"},
		From:      "probe",
		Condition: &idx,
	}
	require.NoError(t, journal.Append(ctx, "trail-1", ev))

	assert.True(t, mr.Exists("test:trail-1"))
	assert.Equal(t, time.Minute, mr.TTL("test:trail-1"))

	events, err := journal.Load(ctx, "trail-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Condition)
	assert.Equal(t, 2, *events[0].Condition)

	mr.FastForward(2 * time.Minute)

	events, err = journal.Load(ctx, "trail-1")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRedisJournal_CorruptEntry(t *testing.T) {
	mr, client := newClient(t)

	journal := redis.NewFromClient(client)
	_, err := mr.Push("lazyfetch:journal:broken", "{not json")
	require.NoError(t, err)

	_, err = journal.Load(context.Background(), "broken")
	assert.ErrorContains(t, err, "failed to unmarshal event")
}
