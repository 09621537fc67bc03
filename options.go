package lazyfetch

import (
	"log/slog"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/ports"
	"github.com/aretw0/lazyfetch/pkg/redact"
)

// Option configures a Cache.
type Option func(*Cache)

// WithTransport sends every round trip through t. An *http.Client satisfies
// ports.Transport.
func WithTransport(t ports.Transport) Option {
	return func(c *Cache) {
		c.transport = t
	}
}

// WithLogger sets a custom structured logger for the cache.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks for advances and
// interrupts.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Cache) {
		c.hooks = hooks
	}
}

// WithProbeMethod overrides the method used by the metadata probe.
// The default is HEAD.
func WithProbeMethod(method string) Option {
	return func(c *Cache) {
		c.probeMethod = method
	}
}

// WithInterruptConditions registers conditions at construction time, as if
// AddInterruptCondition had been called for each one in order.
func WithInterruptConditions(conds ...Condition) Option {
	return func(c *Cache) {
		for _, cond := range conds {
			c.AddInterruptCondition(cond)
		}
	}
}

// WithRedactor sets how the request URL is masked in logs and lifecycle
// events. The default masks passwords and redact.DefaultPatterns.
func WithRedactor(r *redact.Redactor) Option {
	return func(c *Cache) {
		c.redactor = r
	}
}
