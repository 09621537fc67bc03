package domain

import "net/http"

// View is a read-only window onto a Resource, handed to interrupt conditions.
// It exposes getters only and every getter returns a copy, so a condition
// cannot change what the cache has recorded.
type View struct {
	res *Resource
}

// Method returns the method of the original request.
func (v View) Method() string { return v.res.Method() }

// URL returns the target of the original request.
func (v View) URL() string { return v.res.URL() }

// Version returns the protocol version, if known.
func (v View) Version() (Version, bool) { return v.res.Version() }

// Header returns a copy of the header collection, if known.
func (v View) Header() (http.Header, bool) { return v.res.Header() }

// StatusCode returns the status code, if known.
func (v View) StatusCode() (int, bool) { return v.res.StatusCode() }

// ContentLength returns the content length, if known.
func (v View) ContentLength() (int64, bool) { return v.res.ContentLength() }

// ContentType returns the content type, if known.
func (v View) ContentType() (string, bool) { return v.res.ContentType() }

// Body returns the body text, if known.
func (v View) Body() (string, bool) { return v.res.Body() }
