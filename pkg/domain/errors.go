package domain

import (
	"errors"
	"fmt"
)

// ErrTransport is the kind of every failure raised while issuing a request or
// reading its response.
var ErrTransport = errors.New("transport failure")

// ErrMalformedMetadata is the kind of failures raised while interpreting
// response metadata, such as an unparsable declared length.
var ErrMalformedMetadata = errors.New("malformed response metadata")

// ErrNonReproducibleRequest is returned when the original request cannot be
// duplicated for re-issuance.
var ErrNonReproducibleRequest = errors.New("request cannot be reproduced")

// ErrNilRequest is returned when a cache is built without a request.
var ErrNilRequest = errors.New("nil request")

// AdvanceError is a fatal failure of one state advance. It unwraps to both its
// Kind and its Cause, so errors.Is matches either.
type AdvanceError struct {
	State string
	Kind  error
	Cause error
}

func (e *AdvanceError) Error() string {
	if errors.Is(e.Cause, e.Kind) {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *AdvanceError) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}

// NewAdvanceError classifies cause for state. A cause that already wraps
// ErrNonReproducibleRequest or ErrMalformedMetadata keeps that kind; anything
// else is filed under fallback.
func NewAdvanceError(state string, fallback, cause error) error {
	var ae *AdvanceError
	if errors.As(cause, &ae) {
		return cause
	}

	kind := fallback
	switch {
	case errors.Is(cause, ErrNonReproducibleRequest):
		kind = ErrNonReproducibleRequest
	case errors.Is(cause, ErrMalformedMetadata):
		kind = ErrMalformedMetadata
	}
	return &AdvanceError{State: state, Kind: kind, Cause: cause}
}
