// Package api exposes the intent dispatcher over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "marboris-intents/internal/common/errors"
	"marboris-intents/internal/common/logger"
	"marboris-intents/internal/common/validation"
	"marboris-intents/internal/intent"
)

const (
	maxBodyBytes  = 64 << 10
	defaultLocale = "en"
	readyTimeout  = 2 * time.Second
)

// Dispatcher is the part of dispatch.Dispatcher the HTTP layer uses.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, req *intent.Request) intent.Result
	Names() []string
}

// ReadinessCheck reports whether a dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	dispatcher Dispatcher
	validator  *validation.Validator
	checks     map[string]ReadinessCheck
	logger     logger.Logger
}

func NewServer(d Dispatcher, checks map[string]ReadinessCheck, log logger.Logger) *Server {
	return &Server{
		dispatcher: d,
		validator:  validation.NewIntentRequestValidator(),
		checks:     checks,
		logger:     log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

// Routes returns the HTTP handler serving every endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/intents/{name}", s.handleIntent)
	mux.HandleFunc("GET /v1/intents", s.handleListIntents)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, apperrors.NewInvalidRequestError("request body too large"))
			return
		}
		s.writeError(w, http.StatusBadRequest, apperrors.NewInvalidRequestError("unreadable request body"))
		return
	}

	result, err := s.validator.ValidateJSON(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.NewInvalidRequestError("malformed JSON body"))
		return
	}
	if !result.Valid {
		s.writeError(w, http.StatusBadRequest, apperrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; ")))
		return
	}

	var req intent.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.NewInvalidRequestError(err.Error()))
		return
	}
	if req.Locale == "" {
		req.Locale = defaultLocale
	}

	s.writeJSON(w, http.StatusOK, s.dispatcher.Dispatch(r.Context(), name, &req))
}

func (s *Server) handleListIntents(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"intents": s.dispatcher.Names(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	var failing []string
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("readiness check failed", map[string]interface{}{
				"check": name,
				"error": err,
			})
			failing = append(failing, name)
		}
	}

	if len(failing) > 0 {
		sort.Strings(failing)
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "not_ready",
			"failing": failing,
			"time":    time.Now().Format(time.RFC3339),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err *apperrors.StandardError) {
	s.logger.Debug("request rejected", map[string]interface{}{
		"status":  status,
		"code":    err.Code,
		"details": err.Details,
	})
	s.writeJSON(w, status, err)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", map[string]interface{}{
			"error": err,
		})
	}
}
