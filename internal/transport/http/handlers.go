// Package transporthttp exposes the daemon's inbound surface: the
// message-event webhook plus health and Prometheus endpoints.
package transporthttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/config"
	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
)

// EventQueue admits events into the sequential processing pipeline.
type EventQueue interface {
	Enqueue(ev domain.MessageEvent) bool
}

// ReadinessChecker reports whether the backing store is reachable.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type Server struct {
	Cfg   config.Config
	Queue EventQueue
	Store ReadinessChecker
	Now   func() time.Time
	Log   *slog.Logger
}

func decodeJSONStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// --- Health ---

func (s *Server) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ready(r.Context()); err != nil {
		WriteProblem(w, http.StatusServiceUnavailable, "not ready", "database not reachable", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// --- Message events ---

func (s *Server) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)

	var ev domain.MessageEvent
	if err := decodeJSONStrict(r, &ev); err != nil {
		WriteProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	errs := domain.ValidateMessage(&ev, s.Now(), s.Cfg.ClockSkew)
	if len(errs) > 0 {
		prob := map[string][]string{}
		for _, fe := range errs {
			prob[fe.Field] = append(prob[fe.Field], fe.Msg)
		}
		WriteProblem(w, http.StatusBadRequest, "validation failed", "one or more fields are invalid", prob)
		return
	}

	if ok := s.Queue.Enqueue(ev); !ok {
		WriteProblem(w, http.StatusServiceUnavailable, "overloaded", "event queue is full, please retry", nil)
		return
	}
	s.log().Debug("event queued", "author_id", ev.AuthorID, "channel_id", ev.ChannelID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"status":"queued"}`))
}

func (s *Server) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// --- Router ---

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.HandleHealthz)
	r.Get("/readyz", s.HandleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	var postMessage http.Handler = http.HandlerFunc(s.HandlePostMessage)
	postMessage = BodyLimit(s.Cfg.MaxBodyBytes)(postMessage)
	postMessage = RequireJSON(postMessage)
	postMessage = RateLimit(s.Cfg.EventRatePerSec, s.Cfg.EventRateBurst)(postMessage)
	postMessage = APIKeyAuth(s.Cfg.APIKeys)(postMessage)
	r.Method(http.MethodPost, "/events/message", postMessage)

	return r
}
