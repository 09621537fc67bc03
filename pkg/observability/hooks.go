package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/ports"
)

// Compose combines multiple hook sets into one. Callbacks run in argument
// order; nil callbacks are skipped.
func Compose(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStep != nil {
					h.OnStep(ctx, e)
				}
			}
		},
		OnInterrupt: func(ctx context.Context, e *domain.InterruptEvent) {
			for _, h := range hooks {
				if h.OnInterrupt != nil {
					h.OnInterrupt(ctx, e)
				}
			}
		},
	}
}

// LogHooks logs every event at info level, failures at error level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			if e.Error != "" {
				logger.ErrorContext(ctx, "step_failed", "url", e.URL, "state", e.From, "err", e.Error)
				return
			}
			logger.InfoContext(ctx, "step",
				"url", e.URL,
				"type", e.Type,
				"from", e.From,
				"to", e.To,
				"duration", e.Duration,
			)
		},
		OnInterrupt: func(ctx context.Context, e *domain.InterruptEvent) {
			logger.InfoContext(ctx, "interrupt", "url", e.URL, "condition", e.Condition, "state", e.State)
		},
	}
}

// JournalHooks appends every event to j under trail. Journal failures are
// logged and never reach the cache.
func JournalHooks(j ports.Journal, trail string, logger *slog.Logger) domain.LifecycleHooks {
	record := func(ctx context.Context, ev domain.Event) {
		if err := j.Append(ctx, trail, ev); err != nil && logger != nil {
			logger.WarnContext(ctx, "journal append failed", "trail", trail, "err", err)
		}
	}
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			record(ctx, e.Event())
		},
		OnInterrupt: func(ctx context.Context, e *domain.InterruptEvent) {
			record(ctx, e.Event())
		},
	}
}
