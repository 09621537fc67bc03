package runtime

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"go.uber.org/multierr"
	"golang.org/x/net/html/charset"
)

// Populate records what resp reveals about the resource: protocol version,
// status code, the header collection verbatim, content type and length from
// the headers, and, when withBody is set, the body text. The response body is
// always closed.
//
// A parseable Content-Length header wins over the length reported by the
// transport; an absent or unparsable one keeps the transport value. An
// unparsable header with nothing to fall back on is ErrMalformedMetadata.
func Populate(res *domain.Resource, resp *http.Response, withBody bool, log *slog.Logger) (err error) {
	if resp.Body != nil {
		defer func() {
			err = multierr.Append(err, resp.Body.Close())
		}()
	}

	res.RecordVersion(domain.VersionOf(resp))
	res.RecordStatusCode(resp.StatusCode)
	res.RecordHeader(resp.Header)

	if values := resp.Header.Values("Content-Type"); len(values) > 0 {
		res.RecordContentType(values[0])
	}

	n, declared, parseErr := declaredLength(resp.Header)
	switch {
	case declared && parseErr == nil:
		res.RecordContentLength(n)
	case resp.ContentLength >= 0:
		if parseErr != nil && log != nil {
			log.Warn("ignoring unparsable content-length header", "err", parseErr, "transport_length", resp.ContentLength)
		}
		res.RecordContentLength(resp.ContentLength)
	case parseErr != nil:
		return parseErr
	}

	if !withBody || resp.Body == nil {
		return nil
	}

	body, err := readText(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	res.RecordBody(body)
	return nil
}

// declaredLength parses the Content-Length header. declared is false when the
// header is absent.
func declaredLength(h http.Header) (n int64, declared bool, err error) {
	values := h.Values("Content-Length")
	if len(values) == 0 {
		return 0, false, nil
	}

	raw := strings.TrimSpace(values[0])
	n, err = strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, true, fmt.Errorf("%w: content-length %q", domain.ErrMalformedMetadata, values[0])
	}
	for _, v := range values[1:] {
		if strings.TrimSpace(v) != raw {
			return 0, true, fmt.Errorf("%w: conflicting content-length values %q", domain.ErrMalformedMetadata, values)
		}
	}
	return n, true, nil
}

// readText reads the body as text, decoding from the declared charset when it
// is not UTF-8. Undeclared or unknown charsets keep the raw bytes.
func readText(body io.Reader, contentType string) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(raw) == 0 {
		return "", nil
	}

	label := declaredCharset(contentType)
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return string(raw), nil
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(raw))
	if err != nil {
		return string(raw), nil
	}
	decoded, err := io.ReadAll(r)
	if err != nil || !utf8.Valid(decoded) {
		return string(raw), nil
	}
	return string(decoded), nil
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
