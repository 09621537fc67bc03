package middleware

import (
	"context"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/ports"
	"github.com/aretw0/lazyfetch/pkg/redact"
)

type redactMiddleware struct {
	next     ports.Journal
	redactor *redact.Redactor
}

// NewRedactMiddleware creates a middleware that masks URL passwords and the
// values of query parameters whose names match patterns, in the event URL and
// wherever that URL is quoted in the event error.
func NewRedactMiddleware(patterns []string) (Middleware, error) {
	r, err := redact.New(patterns)
	if err != nil {
		return nil, err
	}
	return func(next ports.Journal) ports.Journal {
		return &redactMiddleware{next: next, redactor: r}
	}, nil
}

func (m *redactMiddleware) Append(ctx context.Context, trail string, ev domain.Event) error {
	ev.Error = m.redactor.Text(ev.Error, ev.URL)
	ev.URL = m.redactor.URL(ev.URL)
	return m.next.Append(ctx, trail, ev)
}

func (m *redactMiddleware) Load(ctx context.Context, trail string) ([]domain.Event, error) {
	return m.next.Load(ctx, trail)
}

func (m *redactMiddleware) Delete(ctx context.Context, trail string) error {
	return m.next.Delete(ctx, trail)
}
