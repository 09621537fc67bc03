package domain

import (
	"fmt"
	"net/http"
)

// Version is an HTTP protocol version.
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// VersionOf returns the protocol version of resp.
func VersionOf(resp *http.Response) Version {
	return Version{Major: resp.ProtoMajor, Minor: resp.ProtoMinor}
}

// String formats the version the way it appears on the wire, e.g. "HTTP/1.1".
// HTTP/2 and later have no minor version on the wire.
func (v Version) String() string {
	if v.Major >= 2 && v.Minor == 0 {
		return fmt.Sprintf("HTTP/%d", v.Major)
	}
	return fmt.Sprintf("HTTP/%d.%d", v.Major, v.Minor)
}

// Snapshot is a detached copy of a resource's resolved attributes. Nil fields
// are unknown.
type Snapshot struct {
	Method        string      `json:"method"`
	URL           string      `json:"url"`
	Version       *string     `json:"version,omitempty"`
	Header        http.Header `json:"header,omitempty"`
	StatusCode    *int        `json:"status_code,omitempty"`
	ContentLength *int64      `json:"content_length,omitempty"`
	ContentType   *string     `json:"content_type,omitempty"`
	Body          *string     `json:"body,omitempty"`

	// Locked reports whether the snapshot is final.
	Locked bool `json:"locked"`
	// Steps is the number of state advances performed.
	Steps int `json:"steps"`
	// Error holds the fatal error that locked the cache, if any.
	Error string `json:"error,omitempty"`
}
