package lazyfetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lazyfetch/internal/runtime"
	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/fsm"
	"github.com/aretw0/lazyfetch/pkg/ports"
	"github.com/aretw0/lazyfetch/pkg/redact"
)

// DefaultTimeout bounds each round trip of the default transport.
const DefaultTimeout = 30 * time.Second

// Cache lazily resolves the response attributes of a single request.
//
// Every attribute accessor may perform network I/O. An accessor returns at
// once when the attribute is already known or the cache is locked; otherwise
// it advances the resolution by one round trip at a time (a metadata probe,
// then the full fetch) until the attribute appears or the cache locks.
//
// Interrupt conditions are checked after every advance; the first one that
// holds locks the cache, keeping whatever was resolved so far. Once locked,
// every accessor returns the same answer forever and performs no work.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	machine    *fsm.Machine[domain.Resource]
	data       *domain.Resource
	conditions []Condition
	err        error

	transport   ports.Transport
	probeMethod string
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	redactor    *redact.Redactor
	// url is the masked request URL used in logs and events.
	url string
}

// New creates an unlocked cache for req. Nothing is sent until an accessor
// needs it.
func New(req *http.Request, opts ...Option) (*Cache, error) {
	if req == nil {
		return nil, domain.ErrNilRequest
	}

	c := &Cache{
		data: domain.NewResource(req),
	}
	for _, opt := range opts {
		opt(c)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.redactor == nil {
		c.redactor = redact.Default()
	}
	c.url = c.redactor.URL(c.data.URL())
	c.logger = c.logger.With("url", c.url)

	if c.transport == nil {
		c.transport = &http.Client{Timeout: DefaultTimeout}
	}

	machine, err := runtime.NewMachine(runtime.Env{
		Transport:   c.transport,
		ProbeMethod: c.probeMethod,
		Logger:      c.logger,
	}, fsm.WithHooks(fsm.Hooks{OnStep: c.onStep}))
	if err != nil {
		return nil, err
	}
	c.machine = machine

	return c, nil
}

// AddInterruptCondition registers cond. Conditions are OR-combined; the
// registration order only decides evaluation order. Conditions added after
// the cache locked are discarded.
func (c *Cache) AddInterruptCondition(cond Condition) {
	if cond == nil || (c.machine != nil && c.machine.Locked()) {
		return
	}
	c.conditions = append(c.conditions, cond)
}

// Version returns the protocol version of the response.
// It may perform network I/O.
func (c *Cache) Version(ctx context.Context) (domain.Version, bool, error) {
	return resolve(ctx, c, (*domain.Resource).Version)
}

// Header returns a copy of the response header collection.
// It may perform network I/O.
func (c *Cache) Header(ctx context.Context) (http.Header, bool, error) {
	return resolve(ctx, c, (*domain.Resource).Header)
}

// StatusCode returns the response status code.
// It may perform network I/O.
func (c *Cache) StatusCode(ctx context.Context) (int, bool, error) {
	return resolve(ctx, c, (*domain.Resource).StatusCode)
}

// ContentLength returns the declared content length.
// It may perform network I/O.
func (c *Cache) ContentLength(ctx context.Context) (int64, bool, error) {
	return resolve(ctx, c, (*domain.Resource).ContentLength)
}

// ContentType returns the Content-Type header value, verbatim.
// It may perform network I/O.
func (c *Cache) ContentType(ctx context.Context) (string, bool, error) {
	return resolve(ctx, c, (*domain.Resource).ContentType)
}

// Body returns the response body as text. An empty body is reported as
// absent: after the cache locks, a missing body is authoritative; before, it
// is still pending.
// It may perform network I/O, including the full fetch.
func (c *Cache) Body(ctx context.Context) (string, bool, error) {
	return resolve(ctx, c, (*domain.Resource).Body)
}

// Resolve advances the cache until it locks and returns the fatal error that
// stopped it, if any.
func (c *Cache) Resolve(ctx context.Context) error {
	for range c.machine.Graph().MaxSteps() {
		if c.machine.Locked() {
			break
		}
		c.advance(ctx)
	}
	c.machine.Lock()
	return c.err
}

// Request returns a copy of the original request. It has no side effects.
func (c *Cache) Request() *http.Request {
	return c.data.Request()
}

// Locked reports whether the cache has stopped for good. It has no side effects.
func (c *Cache) Locked() bool {
	return c.machine.Locked()
}

// Err returns the fatal error that locked the cache, if any.
func (c *Cache) Err() error {
	return c.err
}

// Steps returns the number of advances performed so far.
func (c *Cache) Steps() int {
	return c.machine.Steps()
}

// State returns the state the next advance would run.
func (c *Cache) State() fsm.StateID {
	return c.machine.Current()
}

// Snapshot returns a detached copy of everything resolved so far without
// performing any work.
func (c *Cache) Snapshot() domain.Snapshot {
	s := c.data.Snapshot()
	s.Locked = c.machine.Locked()
	s.Steps = c.machine.Steps()
	if c.err != nil {
		s.Error = c.err.Error()
	}
	return s
}

// resolve implements the accessor policy: answer from what is known when the
// cache is locked or the attribute is set, otherwise advance once and retry.
// The loop is bounded by the longest path of the graph.
func resolve[T any](ctx context.Context, c *Cache, get func(*domain.Resource) (T, bool)) (T, bool, error) {
	for range c.machine.Graph().MaxSteps() + 1 {
		if c.machine.Locked() {
			v, ok := get(c.data)
			return v, ok, c.err
		}
		if v, ok := get(c.data); ok {
			return v, true, nil
		}
		if err := c.advance(ctx); err != nil {
			v, ok := get(c.data)
			return v, ok, err
		}
	}

	// Unreachable for a sealed graph: every path locks within MaxSteps.
	c.machine.Lock()
	v, ok := get(c.data)
	return v, ok, c.err
}

// advance runs one step and then the interrupt conditions.
func (c *Cache) advance(ctx context.Context) error {
	if err := c.machine.Step(ctx, c.data); err != nil {
		c.err = err
		c.logger.Error("resolution failed", "err", c.redactor.Text(err.Error(), c.data.URL()))
		return err
	}
	if c.machine.Locked() {
		return nil
	}

	view := c.data.View()
	for i, cond := range c.conditions {
		if !cond(view) {
			continue
		}
		c.machine.Lock()
		c.logger.Info("interrupted by condition", "condition", i, "state", c.machine.Current())
		if c.hooks.OnInterrupt != nil {
			c.hooks.OnInterrupt(ctx, &domain.InterruptEvent{
				EventBase: c.eventBase(domain.EventInterrupt),
				Condition: i,
				State:     string(c.machine.Current()),
			})
		}
		break
	}
	return nil
}

func (c *Cache) onStep(ctx context.Context, ev fsm.StepEvent) {
	if c.hooks.OnStep == nil {
		return
	}

	typ := domain.EventAdvance
	switch {
	case ev.Err != nil:
		typ = domain.EventFailure
	case ev.Complete:
		typ = domain.EventComplete
	}

	out := &domain.StepEvent{
		EventBase: c.eventBase(typ),
		From:      string(ev.From),
		To:        string(ev.To),
		Duration:  ev.Duration,
	}
	if ev.Err != nil {
		out.Error = c.redactor.Text(ev.Err.Error(), c.data.URL())
	}
	c.hooks.OnStep(ctx, out)
}

func (c *Cache) eventBase(typ domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      typ,
		URL:       c.url,
	}
}
