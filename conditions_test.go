package lazyfetch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aretw0/lazyfetch"
	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// viewOf returns the view of a resource whose probe answered with the given
// status and header.
func viewOf(t *testing.T, reqMethod string, status int, header http.Header) domain.View {
	t.Helper()
	transport := &mockTransport{}
	transport.On("Do", method(http.MethodHead)).Return(response(status, header, ""), nil).Once()

	req, err := http.NewRequest(reqMethod, "http://example.test/", nil)
	require.NoError(t, err)

	var view domain.View
	capture := func(v domain.View) bool {
		view = v
		return true
	}
	c, err := lazyfetch.New(req, lazyfetch.WithTransport(transport), lazyfetch.WithInterruptConditions(capture))
	require.NoError(t, err)
	require.NoError(t, c.Resolve(context.Background()))
	return view
}

func TestConditions(t *testing.T) {
	tests := []struct {
		name   string
		cond   lazyfetch.Condition
		method string
		status int
		header http.Header
		want   bool
	}{
		{name: "StatusNotSuccess on 200", cond: lazyfetch.StatusNotSuccess(), status: 200, want: false},
		{name: "StatusNotSuccess on 204", cond: lazyfetch.StatusNotSuccess(), status: 204, want: false},
		{name: "StatusNotSuccess on 301", cond: lazyfetch.StatusNotSuccess(), status: 301, want: true},
		{name: "StatusNotSuccess on 500", cond: lazyfetch.StatusNotSuccess(), status: 500, want: true},
		{name: "StatusIs match", cond: lazyfetch.StatusIs(404, 410), status: 410, want: true},
		{name: "StatusIs miss", cond: lazyfetch.StatusIs(404, 410), status: 200, want: false},
		{
			name: "ContentTypeIs ignores params and case", cond: lazyfetch.ContentTypeIs("application/pdf"),
			status: 200, header: http.Header{"Content-Type": {"Application/PDF; name=report.pdf"}}, want: true,
		},
		{
			name: "ContentTypeIs argument params are ignored", cond: lazyfetch.ContentTypeIs("text/html; charset=utf-8"),
			status: 200, header: http.Header{"Content-Type": {"text/html"}}, want: true,
		},
		{
			name: "ContentTypeIs other type", cond: lazyfetch.ContentTypeIs("application/pdf"),
			status: 200, header: http.Header{"Content-Type": {"text/html"}}, want: false,
		},
		{name: "ContentTypeIs without header", cond: lazyfetch.ContentTypeIs("application/pdf"), status: 200, want: false},
		{name: "MethodIs match", cond: lazyfetch.MethodIs("delete"), method: http.MethodDelete, status: 200, want: true},
		{name: "MethodIs miss", cond: lazyfetch.MethodIs(http.MethodHead), method: http.MethodGet, status: 200, want: false},
		{
			name: "ContentLengthAbove", cond: lazyfetch.ContentLengthAbove(100),
			status: 200, header: http.Header{"Content-Length": {"101"}}, want: true,
		},
		{
			name: "ContentLengthAbove at limit", cond: lazyfetch.ContentLengthAbove(100),
			status: 200, header: http.Header{"Content-Length": {"100"}}, want: false,
		},
		{name: "Any", cond: lazyfetch.Any(lazyfetch.StatusIs(1), nil, lazyfetch.StatusIs(200)), status: 200, want: true},
		{name: "Any of nothing", cond: lazyfetch.Any(), status: 200, want: false},
		{name: "All", cond: lazyfetch.All(lazyfetch.StatusIs(200), lazyfetch.MethodIs(http.MethodGet)), status: 200, want: true},
		{name: "All with a miss", cond: lazyfetch.All(lazyfetch.StatusIs(200), lazyfetch.MethodIs(http.MethodPut)), status: 200, want: false},
		{name: "All of nothing", cond: lazyfetch.All(), status: 200, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.method
			if m == "" {
				m = http.MethodGet
			}
			header := tt.header
			if header == nil {
				header = http.Header{}
			}
			v := viewOf(t, m, tt.status, header)
			assert.Equal(t, tt.want, tt.cond(v))
		})
	}
}

func TestConditions_UnknownStatusNeverHolds(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	require.NoError(t, err)
	empty := domain.NewResource(req).View()

	assert.False(t, lazyfetch.StatusNotSuccess()(empty))
	assert.False(t, lazyfetch.StatusIs(0)(empty))
	assert.False(t, lazyfetch.ContentLengthAbove(-1)(empty))
}
