package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/lazyfetch/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Journal implements ports.Journal using a Redis list per trail.
type Journal struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Journal)

// WithTTL sets the expiration for trails. It is refreshed on every append.
func WithTTL(ttl time.Duration) Option {
	return func(j *Journal) {
		j.ttl = ttl
	}
}

// WithPrefix sets the key prefix for trails.
func WithPrefix(prefix string) Option {
	return func(j *Journal) {
		j.prefix = prefix
	}
}

// New creates a new Redis journal with options.
func New(address, password string, db int, opts ...Option) *Journal {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	journal := &Journal{
		client: client,
		prefix: "lazyfetch:journal:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(journal)
	}

	return journal
}

func (j *Journal) key(trail string) string {
	return j.prefix + trail
}

// Append pushes the event to the tail of the trail.
func (j *Journal) Append(ctx context.Context, trail string, ev domain.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pipe := j.client.Pipeline()
	pipe.RPush(ctx, j.key(trail), data)
	if j.ttl > 0 {
		pipe.Expire(ctx, j.key(trail), j.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// Load reads the whole trail.
func (j *Journal) Load(ctx context.Context, trail string) ([]domain.Event, error) {
	vals, err := j.client.LRange(ctx, j.key(trail), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}

	events := make([]domain.Event, 0, len(vals))
	for _, val := range vals {
		var ev domain.Event
		if err := json.Unmarshal([]byte(val), &ev); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Delete removes the trail.
func (j *Journal) Delete(ctx context.Context, trail string) error {
	return j.client.Del(ctx, j.key(trail)).Err()
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}
