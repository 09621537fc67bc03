package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aretw0/lazyfetch"
	"github.com/aretw0/lazyfetch/internal/presentation/graph"
	"github.com/aretw0/lazyfetch/pkg/adapters/memory"
	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrigin(t *testing.T, status int) *httptest.Server {
	t.Helper()
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		if r.Method != http.MethodHead {
			io.WriteString(w, "origin body")
		}
	}))
	t.Cleanup(origin.Close)
	return origin
}

func newTestServer(origin *httptest.Server) (*Server, http.Handler) {
	s := &Server{
		Options: []lazyfetch.Option{lazyfetch.WithTransport(origin.Client())},
		Journal: memory.NewJournal(),
		Metrics: observability.NewMetrics(),
	}
	return s, NewHandler(s)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestGetHealth(t *testing.T) {
	handler := NewHandler(&Server{})
	rr := get(t, handler, "/healthz")

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	rr := get(t, NewHandler(&Server{}), "/info")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "lazyfetch-http", resp["app"])
	assert.NotEmpty(t, resp["version"])
}

func TestGetGraph(t *testing.T) {
	rr := get(t, NewHandler(&Server{}), "/v1/graph")
	assert.Equal(t, http.StatusOK, rr.Code)

	var shape graph.Shape
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &shape))
	assert.Equal(t, "probe", string(shape.Start))
	assert.Equal(t, "full_fetch", string(shape.Terminal))
	assert.Len(t, shape.Edges, 1)
}

func TestGetResource(t *testing.T) {
	origin := newOrigin(t, http.StatusOK)
	_, handler := newTestServer(origin)

	t.Run("Metadata only", func(t *testing.T) {
		rr := get(t, handler, "/v1/resource?url="+url.QueryEscape(origin.URL))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp ResourceResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Snapshot.StatusCode)
		assert.Equal(t, http.StatusOK, *resp.Snapshot.StatusCode)
		assert.Nil(t, resp.Snapshot.Body)
		assert.False(t, resp.Snapshot.Locked)
		assert.Equal(t, 1, resp.Snapshot.Steps)
		assert.NotEmpty(t, resp.Trail)

		// The trail is replayable from the journal.
		rr = get(t, handler, "/v1/trails/"+resp.Trail)
		require.Equal(t, http.StatusOK, rr.Code)
		var events []domain.Event
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventAdvance, events[0].Type)
	})

	t.Run("With body", func(t *testing.T) {
		rr := get(t, handler, "/v1/resource?body=true&url="+url.QueryEscape(origin.URL))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp ResourceResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Snapshot.Body)
		assert.Equal(t, "origin body", *resp.Snapshot.Body)
		assert.True(t, resp.Snapshot.Locked)
	})

	t.Run("Interrupted", func(t *testing.T) {
		rr := get(t, handler, "/v1/resource?body=true&interrupt=content-type=text/plain&url="+url.QueryEscape(origin.URL))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp ResourceResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Nil(t, resp.Snapshot.Body)
		assert.True(t, resp.Snapshot.Locked)
		assert.Equal(t, 1, resp.Snapshot.Steps)
	})

	t.Run("Metrics reflect the work", func(t *testing.T) {
		rr := get(t, handler, "/metrics")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `lazyfetch_steps_total{outcome="complete",state="full_fetch"} 1`)
		assert.Contains(t, rr.Body.String(), "lazyfetch_interrupts_total 1")
	})

}

func TestGetResource_Errors(t *testing.T) {
	origin := newOrigin(t, http.StatusOK)
	_, handler := newTestServer(origin)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "Missing url", target: "/v1/resource", status: http.StatusBadRequest},
		{name: "Unsupported scheme", target: "/v1/resource?url=" + url.QueryEscape("ftp://example.test/"), status: http.StatusBadRequest},
		{name: "Bad interrupt", target: "/v1/resource?interrupt=weather&url=" + url.QueryEscape(origin.URL), status: http.StatusBadRequest},
		{name: "Bad method", target: "/v1/resource?method=" + url.QueryEscape("GE T") + "&url=" + url.QueryEscape(origin.URL), status: http.StatusBadRequest},
		{name: "Unknown trail", target: "/v1/trails/nope", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, get(t, handler, tt.target).Code)
		})
	}
}

func TestGetResource_TransportFailure(t *testing.T) {
	origin := newOrigin(t, http.StatusOK)
	target := origin.URL
	origin.Close()

	_, handler := newTestServer(origin)
	rr := get(t, handler, "/v1/resource?url="+url.QueryEscape(target))
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	var resp ResourceResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Snapshot.Locked)
	assert.True(t, strings.Contains(resp.Snapshot.Error, "transport"), resp.Snapshot.Error)
}

func TestTrailLifecycle(t *testing.T) {
	origin := newOrigin(t, http.StatusOK)
	_, handler := newTestServer(origin)

	rr := get(t, handler, "/v1/resource?url="+url.QueryEscape(origin.URL))
	require.Equal(t, http.StatusOK, rr.Code)
	var resp ResourceResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	t.Run("Mermaid overlay", func(t *testing.T) {
		rr := get(t, handler, "/v1/trails/"+resp.Trail+"?format=mermaid")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "graph TD")
		assert.Contains(t, rr.Body.String(), "class probe visited;")
		assert.Contains(t, rr.Body.String(), "class full_fetch current;")
	})

	t.Run("Unknown format", func(t *testing.T) {
		rr := get(t, handler, "/v1/trails/"+resp.Trail+"?format=dot")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/trails/"+resp.Trail, nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = get(t, handler, "/v1/trails/"+resp.Trail)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetResource_LogsRedactedURL(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	target, err := url.Parse(dead.URL)
	require.NoError(t, err)
	dead.Close()
	target.User = url.UserPassword("alice", "hunter2")
	target.RawQuery = "token=s3cret&page=2"

	var logs bytes.Buffer
	s := &Server{
		Journal: memory.NewJournal(),
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
	}
	handler := NewHandler(s)

	rr := get(t, handler, "/v1/resource?url="+url.QueryEscape(target.String()))
	require.Equal(t, http.StatusBadGateway, rr.Code)

	assert.Contains(t, logs.String(), "resolution failed")
	assert.NotContains(t, logs.String(), "hunter2")
	assert.NotContains(t, logs.String(), "s3cret")
	assert.Contains(t, logs.String(), "page=2")
}
