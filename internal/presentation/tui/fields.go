package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

const absent = "-"

// Printer writes resolved cache data with coloured labels.
type Printer struct {
	out     io.Writer
	profile termenv.Profile
}

// NewPrinter creates a printer for w. Colours follow the terminal's
// capabilities; plain writers get plain text.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w, profile: termenv.NewOutput(w).Profile}
}

// NewPlainPrinter creates a printer that never emits escape sequences.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{out: w, profile: termenv.Ascii}
}

func (p *Printer) label(s string) termenv.Style {
	return p.profile.String(fmt.Sprintf("%-15s", s)).Foreground(p.profile.Color("#38bdf8")).Bold()
}

// Field prints one label/value line. Both are sanitized, since values come
// from the remote server.
func (p *Printer) Field(name, value string) {
	fmt.Fprintf(p.out, "%s %s\n", p.label(Sanitize(name)), Sanitize(value))
}

// Snapshot prints everything s holds, marking unresolved attributes.
func (p *Printer) Snapshot(s domain.Snapshot, withHeaders bool) {
	p.Field("request", s.Method+" "+s.URL)
	p.Field("version", deref(s.Version))
	p.Field("status", status(s.StatusCode))
	p.Field("content-type", deref(s.ContentType))
	p.Field("content-length", Size(s.ContentLength))

	state := "open"
	if s.Locked {
		state = "locked"
	}
	p.Field("cache", fmt.Sprintf("%s after %d step(s)", state, s.Steps))

	if s.Error != "" {
		msg := p.profile.String(Sanitize(s.Error)).Foreground(p.profile.Color("#f87171"))
		fmt.Fprintf(p.out, "%s %s\n", p.label("error"), msg)
	}

	if withHeaders && len(s.Header) > 0 {
		keys := make([]string, 0, len(s.Header))
		for k := range s.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.Field("  "+k, strings.Join(s.Header[k], ", "))
		}
	}
}

// Size formats a content length for humans, keeping the exact byte count.
func Size(n *int64) string {
	if n == nil {
		return absent
	}
	if *n < 1024 {
		return fmt.Sprintf("%d B", *n)
	}
	return fmt.Sprintf("%s (%s bytes)", humanize.IBytes(uint64(*n)), humanize.Comma(*n))
}

func status(code *int) string {
	if code == nil {
		return absent
	}
	return fmt.Sprintf("%d %s", *code, httpStatusText(*code))
}

func deref(s *string) string {
	if s == nil {
		return absent
	}
	return *s
}
