package ports

import "net/http"

// Transport issues a single outbound request. It must accept logically
// identical requests more than once. *http.Client satisfies it.
//
// Timeouts and cancellation belong to the transport and to the request context.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportFunc adapts a function to a Transport.
type TransportFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req).
func (f TransportFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
