// Package redact masks credentials in request URLs before they reach logs,
// journals or error text.
package redact

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Mask replaces redacted values.
const Mask = "***"

// DefaultPatterns match query parameter names that commonly carry
// credentials.
var DefaultPatterns = []string{`(?i)token`, `(?i)secret`, `(?i)passw(or)?d`, `(?i)^(api_?)?key$`, `(?i)signature`, `(?i)^sig$`}

// Redactor masks URL passwords and the values of query parameters whose names
// match one of its patterns. A nil Redactor masks passwords only.
type Redactor struct {
	patterns []*regexp.Regexp
}

// New compiles patterns into a Redactor.
func New(patterns []string) (*Redactor, error) {
	r := &Redactor{patterns: make([]*regexp.Regexp, len(patterns))}
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("redact pattern %q: %w", p, err)
		}
		r.patterns[i] = re
	}
	return r, nil
}

// Default returns a Redactor using DefaultPatterns.
func Default() *Redactor {
	r, err := New(DefaultPatterns)
	if err != nil {
		panic(err)
	}
	return r
}

// URL masks raw. Unparsable input is masked entirely.
func (r *Redactor) URL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Mask
	}

	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), Mask)
	}

	if u.RawQuery != "" {
		q := u.Query()
		changed := false
		for k, values := range q {
			if !r.matches(k) {
				continue
			}
			for i := range values {
				values[i] = Mask
			}
			changed = true
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}
	return u.String()
}

// Text replaces every spelling of raw found in s with its masked form. Besides
// raw itself this covers the password-stripped form net/http uses in client
// errors.
func (r *Redactor) Text(s, raw string) string {
	if s == "" || raw == "" {
		return s
	}
	masked := r.URL(raw)
	if masked == raw {
		return s
	}
	for _, form := range spellings(raw) {
		s = strings.ReplaceAll(s, form, masked)
	}
	return s
}

func spellings(raw string) []string {
	forms := []string{raw}
	u, err := url.Parse(raw)
	if err != nil {
		return forms
	}
	forms = append(forms, u.String(), u.Redacted())
	if _, ok := u.User.Password(); ok {
		forms = append(forms, strings.Replace(u.String(), u.User.String()+"@", u.User.Username()+":"+Mask+"@", 1))
	}
	return forms
}

func (r *Redactor) matches(key string) bool {
	if r == nil {
		return false
	}
	for _, p := range r.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
