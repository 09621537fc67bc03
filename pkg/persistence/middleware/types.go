package middleware

import "github.com/aretw0/lazyfetch/pkg/ports"

// Middleware wraps a Journal to transform events on their way in.
type Middleware func(ports.Journal) ports.Journal

// Chain applies mws to j so that the first middleware sees events first.
func Chain(j ports.Journal, mws ...Middleware) ports.Journal {
	for i := len(mws) - 1; i >= 0; i-- {
		j = mws[i](j)
	}
	return j
}
