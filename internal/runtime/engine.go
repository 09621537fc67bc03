package runtime

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/fsm"
	"github.com/aretw0/lazyfetch/pkg/ports"
)

// Resolution state identities.
const (
	StateProbe     fsm.StateID = "probe"
	StateFullFetch fsm.StateID = "full_fetch"
)

// DefaultProbeMethod is the cheap method used to discover metadata.
const DefaultProbeMethod = http.MethodHead

// The resolution graph: a metadata probe, then the full fetch.
// FullFetch is the terminal state.
var (
	graph            = fsm.NewGraph[domain.Resource](StateProbe)
	probeToFullFetch = fsm.Connect[domain.Resource, Probe, FullFetch](graph)
	_                = graph.MustSeal()
)

// Graph returns the sealed resolution graph.
func Graph() *fsm.Graph[domain.Resource] {
	return graph
}

// Env holds what every state needs to do its work.
type Env struct {
	Transport   ports.Transport
	ProbeMethod string
	Logger      *slog.Logger
}

func (e *Env) transport() ports.Transport {
	if e.Transport == nil {
		return http.DefaultClient
	}
	return e.Transport
}

func (e *Env) probeMethod() string {
	if e.ProbeMethod == "" {
		return DefaultProbeMethod
	}
	return strings.ToUpper(e.ProbeMethod)
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

// NewMachine creates a machine positioned at the probe state.
func NewMachine(env Env, opts ...fsm.MachineOption) (*fsm.Machine[domain.Resource], error) {
	opts = append([]fsm.MachineOption{fsm.WithLogger(env.Logger)}, opts...)
	return fsm.NewMachine[domain.Resource](graph, Probe{env: &env}, opts...)
}
