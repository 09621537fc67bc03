package domain

import (
	"context"
	"fmt"
	"net/http"
)

// Resource is the record every state writes into: the original request plus
// the response attributes discovered so far.
//
// Optional attributes accumulate monotonically: the Record methods only ever
// set a value, and nothing clears one. Presence of a value is the only
// "already known" signal.
type Resource struct {
	request *http.Request

	version       *Version
	header        http.Header
	statusCode    *int
	contentLength *int64
	contentType   *string
	body          *string
}

// NewResource creates empty resource data for req.
func NewResource(req *http.Request) *Resource {
	return &Resource{request: req}
}

// CloneRequest returns an independent copy of the original request that can
// be sent on its own. Requests with a body must be replayable through GetBody;
// otherwise ErrNonReproducibleRequest is returned.
func (r *Resource) CloneRequest(ctx context.Context) (*http.Request, error) {
	if r.request == nil {
		return nil, ErrNilRequest
	}

	clone := r.request.Clone(ctx)
	if r.request.Body == nil || r.request.Body == http.NoBody {
		return clone, nil
	}
	if r.request.GetBody == nil {
		return nil, fmt.Errorf("%w: %s %s has a body without GetBody", ErrNonReproducibleRequest, r.request.Method, r.request.URL)
	}

	body, err := r.request.GetBody()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonReproducibleRequest, err)
	}
	clone.Body = body
	return clone, nil
}

// Request returns a shallow copy of the original request for inspection.
// The copy shares the original body, which must not be read.
func (r *Resource) Request() *http.Request {
	if r.request == nil {
		return nil
	}
	return r.request.Clone(r.request.Context())
}

// Method returns the method of the original request, defaulting to GET as
// net/http does.
func (r *Resource) Method() string {
	if r.request == nil || r.request.Method == "" {
		return http.MethodGet
	}
	return r.request.Method
}

// URL returns the target of the original request as a string.
func (r *Resource) URL() string {
	if r.request == nil || r.request.URL == nil {
		return ""
	}
	return r.request.URL.String()
}

// RecordVersion sets the protocol version.
func (r *Resource) RecordVersion(v Version) {
	r.version = &v
}

// RecordStatusCode sets the status code.
func (r *Resource) RecordStatusCode(code int) {
	r.statusCode = &code
}

// RecordHeader replaces the header collection with a copy of h.
// A nil h leaves the current value untouched.
func (r *Resource) RecordHeader(h http.Header) {
	if h == nil {
		return
	}
	r.header = h.Clone()
}

// RecordContentLength sets the content length.
func (r *Resource) RecordContentLength(n int64) {
	r.contentLength = &n
}

// RecordContentType sets the content type.
func (r *Resource) RecordContentType(ct string) {
	r.contentType = &ct
}

// RecordBody sets the body. Empty bodies are not recorded: an empty body is
// represented as absent.
func (r *Resource) RecordBody(body string) {
	if body == "" {
		return
	}
	r.body = &body
}

// Version returns the protocol version, if known.
func (r *Resource) Version() (Version, bool) {
	if r.version == nil {
		return Version{}, false
	}
	return *r.version, true
}

// Header returns a copy of the header collection, if known.
func (r *Resource) Header() (http.Header, bool) {
	if r.header == nil {
		return nil, false
	}
	return r.header.Clone(), true
}

// StatusCode returns the status code, if known.
func (r *Resource) StatusCode() (int, bool) {
	if r.statusCode == nil {
		return 0, false
	}
	return *r.statusCode, true
}

// ContentLength returns the content length, if known.
func (r *Resource) ContentLength() (int64, bool) {
	if r.contentLength == nil {
		return 0, false
	}
	return *r.contentLength, true
}

// ContentType returns the content type, if known.
func (r *Resource) ContentType() (string, bool) {
	if r.contentType == nil {
		return "", false
	}
	return *r.contentType, true
}

// Body returns the body text, if known.
func (r *Resource) Body() (string, bool) {
	if r.body == nil {
		return "", false
	}
	return *r.body, true
}

// View returns a read-only view of r.
func (r *Resource) View() View {
	return View{res: r}
}

// Snapshot copies everything resolved so far.
func (r *Resource) Snapshot() Snapshot {
	s := Snapshot{
		Method: r.Method(),
		URL:    r.URL(),
	}
	if v, ok := r.Version(); ok {
		proto := v.String()
		s.Version = &proto
	}
	if h, ok := r.Header(); ok {
		s.Header = h
	}
	if r.statusCode != nil {
		code := *r.statusCode
		s.StatusCode = &code
	}
	if r.contentLength != nil {
		n := *r.contentLength
		s.ContentLength = &n
	}
	if r.contentType != nil {
		ct := *r.contentType
		s.ContentType = &ct
	}
	if r.body != nil {
		b := *r.body
		s.Body = &b
	}
	return s
}
