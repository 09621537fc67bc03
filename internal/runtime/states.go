package runtime

import (
	"context"
	"net/http"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/fsm"
)

// Probe issues a cheap copy of the request to discover metadata.
type Probe struct {
	env *Env
}

// ID implements fsm.State.
func (Probe) ID() fsm.StateID { return StateProbe }

// Advance sends the request with the probe method and no body, records the
// response metadata and hands over to FullFetch.
func (s Probe) Advance(ctx context.Context, res *domain.Resource) (fsm.Transition[domain.Resource], error) {
	log := s.env.logger()
	log.Info("transitioning", "from", StateProbe)

	req, err := res.CloneRequest(ctx)
	if err != nil {
		return fsm.Transition[domain.Resource]{}, domain.NewAdvanceError(string(StateProbe), domain.ErrNonReproducibleRequest, err)
	}
	if req.Body != nil {
		req.Body.Close()
	}
	req.Method = s.env.probeMethod()
	req.Body = http.NoBody
	req.GetBody = nil
	req.ContentLength = 0

	if err := issue(s.env, req, res, false); err != nil {
		return fsm.Transition[domain.Resource]{}, domain.NewAdvanceError(string(StateProbe), domain.ErrTransport, err)
	}

	log.Info("transitioned", "to", StateFullFetch, "method", req.Method)
	return probeToFullFetch.Next(s, FullFetch{env: s.env}), nil
}

// FullFetch issues the original request unmodified and retrieves the body.
// It is the terminal state.
type FullFetch struct {
	env *Env
}

// ID implements fsm.State.
func (FullFetch) ID() fsm.StateID { return StateFullFetch }

// Advance sends a copy of the original request, records metadata and body,
// and completes the machine.
func (s FullFetch) Advance(ctx context.Context, res *domain.Resource) (fsm.Transition[domain.Resource], error) {
	log := s.env.logger()
	log.Info("transitioning", "from", StateFullFetch)

	req, err := res.CloneRequest(ctx)
	if err != nil {
		return fsm.Transition[domain.Resource]{}, domain.NewAdvanceError(string(StateFullFetch), domain.ErrNonReproducibleRequest, err)
	}

	if err := issue(s.env, req, res, true); err != nil {
		return fsm.Transition[domain.Resource]{}, domain.NewAdvanceError(string(StateFullFetch), domain.ErrTransport, err)
	}

	log.Info("done", "method", req.Method)
	return fsm.Complete[domain.Resource](), nil
}

// issue performs the round trip and populates res from the response.
func issue(env *Env, req *http.Request, res *domain.Resource, withBody bool) error {
	resp, err := env.transport().Do(req)
	if err != nil {
		return err
	}
	return Populate(res, resp, withBody, env.logger())
}
