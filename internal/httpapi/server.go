package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hmoradi/svcready/internal/domain"
	apimw "github.com/hmoradi/svcready/internal/httpapi/middleware"
	"github.com/hmoradi/svcready/internal/notify"
	"github.com/hmoradi/svcready/internal/repo"
)

// ProbeRunner runs one probe to completion.
type ProbeRunner interface {
	Probe(ctx context.Context, req domain.ProbeRequest) domain.ProbeResult
}

// RecordPublisher pushes probe records to an external sink (e.g. Kafka).
type RecordPublisher interface {
	Publish(ctx context.Context, rec *domain.ProbeRecord) error
}

type Server struct {
	Logger    *zap.Logger
	Store     repo.ProbeStore
	Prober    ProbeRunner
	Notifier  notify.Notifier // optional
	Publisher RecordPublisher // optional
}

func NewServer(l *zap.Logger, store repo.ProbeStore, prober ProbeRunner) *Server {
	return &Server{Logger: l, Store: store, Prober: prober}
}

func (s *Server) Router(apiKeys []string, ratePerMin, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(ratePerMin, burst))
		r.Use(apimw.RequireKey(apiKeys))
		r.Post("/probes", s.handleRunProbe)
		r.Get("/probes", s.handleListProbes)
	})

	return r
}

type probePayload struct {
	Service              string  `json:"service"`
	Host                 string  `json:"host"`
	Port                 int     `json:"port"`
	MaxAttempts          int     `json:"max_attempts"`
	RetryIntervalSeconds float64 `json:"retry_interval_seconds"`
	Native               bool    `json:"native"`
}

func (p probePayload) toRequest() domain.ProbeRequest {
	req := domain.ProbeRequest{
		Kind:          domain.ServiceKind(p.Service),
		Host:          p.Host,
		Port:          p.Port,
		MaxAttempts:   p.MaxAttempts,
		RetryInterval: time.Duration(p.RetryIntervalSeconds * float64(time.Second)),
		Native:        p.Native,
	}
	return req.WithDefaults()
}

func (s *Server) handleRunProbe(w http.ResponseWriter, r *http.Request) {
	var p probePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Service == "" {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	req := p.toRequest()
	res := s.Prober.Probe(r.Context(), req)
	if res.State == domain.StateInvalid {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": res.Diagnostic})
		return
	}

	rec := &domain.ProbeRecord{
		Kind:         req.Kind,
		Host:         req.Host,
		Port:         req.Port,
		State:        res.State,
		Ready:        res.Ready,
		AttemptsUsed: res.AttemptsUsed,
		Check:        res.Check,
		Diagnostic:   res.Diagnostic,
		CheckedAt:    time.Now().UTC(),
	}
	if err := s.Store.Append(r.Context(), rec); err != nil {
		s.Logger.Warn("probe_store_error", zap.Error(err))
	}

	if s.Publisher != nil {
		if err := s.Publisher.Publish(r.Context(), rec); err != nil {
			s.Logger.Warn("probe_publish_error", zap.Error(err))
		}
	}

	if s.Notifier != nil && res.State == domain.StateExhausted {
		text := fmt.Sprintf("Service: %s\nTarget: %s:%d\nAttempts: %d\nDiagnostic: %s",
			req.Kind, req.Host, req.Port, res.AttemptsUsed, res.Diagnostic)
		if err := s.Notifier.Send(r.Context(), "Readiness probe exhausted", text); err != nil {
			s.Logger.Warn("probe_notify_error", zap.Error(err))
		}
	}

	s.Logger.Info("probe_ran",
		zap.String("service", string(req.Kind)),
		zap.String("host", req.Host),
		zap.Int("port", req.Port),
		zap.Bool("ready", res.Ready),
		zap.Int("attempts_used", res.AttemptsUsed),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"result": res, "record": rec,
	})
}

func (s *Server) handleListProbes(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := s.Store.List(r.Context(), limit)
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []*domain.ProbeRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recs)
}
