package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aretw0/lazyfetch"
	"github.com/aretw0/lazyfetch/internal/config"
	"github.com/aretw0/lazyfetch/internal/presentation/graph"
	"github.com/aretw0/lazyfetch/internal/runtime"
	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/observability"
	"github.com/aretw0/lazyfetch/pkg/ports"
	"github.com/aretw0/lazyfetch/pkg/redact"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server resolves resources on behalf of HTTP clients and exposes what it
// did: snapshots, journals and metrics.
type Server struct {
	// Options are applied to every cache before per-request conditions.
	Options []lazyfetch.Option
	Journal ports.Journal
	Metrics *observability.Metrics
	Logger  *slog.Logger
	// Redactor masks request URLs in server logs. Nil uses redact.Default.
	Redactor *redact.Redactor
}

// ResourceResponse is the body of /v1/resource.
type ResourceResponse struct {
	Trail    string          `json:"trail"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// NewHandler creates a new HTTP handler for the server.
func NewHandler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/info", s.info)
	r.Get("/v1/graph", s.graph)
	r.Get("/v1/resource", s.resource)
	r.Get("/v1/trails/{trail}", s.trail)
	r.Delete("/v1/trails/{trail}", s.deleteTrail)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}
	return r
}

func (s *Server) redactor() *redact.Redactor {
	if s.Redactor == nil {
		return redact.Default()
	}
	return s.Redactor
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "lazyfetch-http",
		"version": strings.TrimSpace(lazyfetch.Version),
	})
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, graph.Describe(runtime.Graph()))
}

// resource handles GET /v1/resource?url=...&method=...&body=true&interrupt=kind=value.
// Without body=true only the metadata probe is required.
func (s *Server) resource(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	target, err := url.Parse(q.Get("url"))
	if err != nil || target.Host == "" || (target.Scheme != "http" && target.Scheme != "https") {
		http.Error(w, fmt.Sprintf("invalid url %q", q.Get("url")), http.StatusBadRequest)
		return
	}

	method := strings.ToUpper(q.Get("method"))
	if method == "" {
		method = http.MethodGet
	}

	opts := append([]lazyfetch.Option{}, s.Options...)
	for _, raw := range q["interrupt"] {
		spec, err := config.ParseInterrupt(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cond, _ := spec.Condition()
		opts = append(opts, lazyfetch.WithInterruptConditions(cond))
	}

	trail := uuid.New().String()
	opts = append(opts, lazyfetch.WithLifecycleHooks(s.hooks(trail)))

	req, err := http.NewRequestWithContext(r.Context(), method, target.String(), nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cache, err := lazyfetch.New(req, opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if q.Get("body") == "true" {
		_, _, err = cache.Body(r.Context())
	} else {
		_, _, err = cache.StatusCode(r.Context())
	}

	status := http.StatusOK
	if err != nil {
		s.logger().Warn("resolution failed", "trail", trail, "url", s.redactor().URL(target.String()),
			"err", s.redactor().Text(err.Error(), target.String()))
		status = http.StatusBadGateway
		if errors.Is(err, domain.ErrNonReproducibleRequest) {
			status = http.StatusUnprocessableEntity
		}
	}

	s.writeJSON(w, status, ResourceResponse{Trail: trail, Snapshot: cache.Snapshot()})
}

// trail handles GET /v1/trails/{trail}. With format=mermaid the trail is
// drawn over the resolution graph instead of listed as JSON.
func (s *Server) trail(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}

	events, err := s.Journal.Load(r.Context(), chi.URLParam(r, "trail"))
	if err != nil {
		http.Error(w, fmt.Sprintf("load trail: %v", err), http.StatusInternalServerError)
		return
	}
	if len(events) == 0 {
		http.Error(w, "trail not found", http.StatusNotFound)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		s.writeJSON(w, http.StatusOK, events)
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, graph.GenerateMermaid(graph.Describe(runtime.Graph()), graph.OverlayOf(events)))
	default:
		http.Error(w, fmt.Sprintf("unknown format %q (want json or mermaid)", r.URL.Query().Get("format")), http.StatusBadRequest)
	}
}

// deleteTrail handles DELETE /v1/trails/{trail}.
func (s *Server) deleteTrail(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	if err := s.Journal.Delete(r.Context(), chi.URLParam(r, "trail")); err != nil {
		http.Error(w, fmt.Sprintf("delete trail: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) hooks(trail string) domain.LifecycleHooks {
	hooks := []domain.LifecycleHooks{observability.LogHooks(s.logger().With("trail", trail))}
	if s.Metrics != nil {
		hooks = append(hooks, s.Metrics.Hooks())
	}
	if s.Journal != nil {
		hooks = append(hooks, observability.JournalHooks(s.Journal, trail, s.logger()))
	}
	return observability.Compose(hooks...)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger().Error("encode response", "status", status, "err", err)
	}
}
