package lazyfetch

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Field names an attribute the Runner can print.
type Field string

const (
	FieldVersion       Field = "version"
	FieldStatusCode    Field = "status"
	FieldContentType   Field = "content-type"
	FieldContentLength Field = "content-length"
	FieldBody          Field = "body"
)

// DefaultFields is the print order used when a Runner lists none.
var DefaultFields = []Field{FieldVersion, FieldStatusCode, FieldContentType, FieldContentLength, FieldBody}

// Absent is printed for attributes the cache could not resolve.
const Absent = "<absent>"

// Runner prints cache attributes to Output, resolving each one lazily in the
// order given. This allows for easy testing and integration with different
// frontends (CLI, HTTP).
type Runner struct {
	Output   io.Writer
	Fields   []Field
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the body before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner printing the default fields to w.
func NewRunner(w io.Writer) *Runner {
	return &Runner{Output: w}
}

// Run prints every field of c. Resolution stops at the first fatal error,
// which is returned after the fields resolved so far are printed.
func (r *Runner) Run(ctx context.Context, c *Cache) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	fields := r.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}

	if !r.Headless {
		req := c.Request()
		fmt.Fprintf(r.Output, "--- %s %s ---\n", req.Method, req.URL)
	}

	for _, f := range fields {
		value, err := r.field(ctx, c, f)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f, err)
		}
		if f == FieldBody {
			fmt.Fprintln(r.Output, strings.TrimSpace(value))
			continue
		}
		fmt.Fprintf(r.Output, "%s: %s\n", f, value)
	}

	if !r.Headless && c.Locked() && c.Err() == nil {
		fmt.Fprintf(r.Output, "--- resolved in %d step(s) ---\n", c.Steps())
	}
	return nil
}

func (r *Runner) field(ctx context.Context, c *Cache, f Field) (string, error) {
	switch f {
	case FieldVersion:
		v, ok, err := c.Version(ctx)
		return show(v.String(), ok, err)
	case FieldStatusCode:
		code, ok, err := c.StatusCode(ctx)
		return show(strconv.Itoa(code), ok, err)
	case FieldContentType:
		return show(c.ContentType(ctx))
	case FieldContentLength:
		n, ok, err := c.ContentLength(ctx)
		return show(strconv.FormatInt(n, 10), ok, err)
	case FieldBody:
		body, ok, err := c.Body(ctx)
		if err != nil || !ok || r.Renderer == nil {
			return show(body, ok, err)
		}
		rendered, rerr := r.Renderer(body)
		if rerr != nil {
			return body, nil
		}
		return rendered, nil
	default:
		return "", fmt.Errorf("unknown field %q", f)
	}
}

func show(value string, ok bool, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if !ok {
		return Absent, nil
	}
	return value, nil
}
