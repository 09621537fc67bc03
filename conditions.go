package lazyfetch

import (
	"net/http"
	"strings"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/golang/gddo/httputil/header"
)

// Condition is an interrupt predicate over the data resolved so far.
// A condition must not mutate anything; it only sees a read-only view.
type Condition func(domain.View) bool

// StatusNotSuccess holds once a status code is known and lies outside 2xx.
func StatusNotSuccess() Condition {
	return func(v domain.View) bool {
		code, ok := v.StatusCode()
		return ok && (code < 200 || code > 299)
	}
}

// StatusIs holds once the status code is known and equals one of codes.
func StatusIs(codes ...int) Condition {
	return func(v domain.View) bool {
		code, ok := v.StatusCode()
		if !ok {
			return false
		}
		for _, c := range codes {
			if c == code {
				return true
			}
		}
		return false
	}
}

// ContentTypeIs holds once the media type of the response equals mediaType,
// ignoring case and parameters. "text/html; charset=utf-8" matches
// "text/html".
func ContentTypeIs(mediaType string) Condition {
	want := mediaTypeOf(mediaType)
	return func(v domain.View) bool {
		ct, ok := v.ContentType()
		if !ok || want == "" {
			return false
		}
		return strings.EqualFold(mediaTypeOf(ct), want)
	}
}

// MethodIs holds when the original request uses method. It is known before
// any round trip, so it triggers right after the first advance.
func MethodIs(method string) Condition {
	return func(v domain.View) bool {
		return strings.EqualFold(v.Method(), method)
	}
}

// ContentLengthAbove holds once the declared content length exceeds limit.
func ContentLengthAbove(limit int64) Condition {
	return func(v domain.View) bool {
		n, ok := v.ContentLength()
		return ok && n > limit
	}
}

// Any holds when at least one of conds holds.
func Any(conds ...Condition) Condition {
	return func(v domain.View) bool {
		for _, c := range conds {
			if c != nil && c(v) {
				return true
			}
		}
		return false
	}
}

// All holds when every one of conds holds. All of nothing never holds.
func All(conds ...Condition) Condition {
	return func(v domain.View) bool {
		if len(conds) == 0 {
			return false
		}
		for _, c := range conds {
			if c == nil || !c(v) {
				return false
			}
		}
		return true
	}
}

func mediaTypeOf(contentType string) string {
	value, _ := header.ParseValueAndParams(http.Header{"Content-Type": {contentType}}, "Content-Type")
	return value
}
