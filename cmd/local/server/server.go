// Package server provides the HTTP harness that runs custom resource events locally.
package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/constants"
	"github.com/runvoy/ecstasks/internal/lifecycle"
	"github.com/runvoy/ecstasks/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// VerdictHandler runs one lifecycle event to its verdict.
type VerdictHandler interface {
	Handle(ctx context.Context, event *api.LifecycleEvent, remaining lifecycle.RemainingTimeFunc) *api.Verdict
}

// NewRouter creates a chi router for the local event harness.
func NewRouter(orch VerdictHandler, log *slog.Logger) *chi.Mux {
	return newRouter(orch, log, time.Now)
}

func newRouter(orch VerdictHandler, log *slog.Logger, now func() time.Time) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogging(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, api.HealthResponse{
			Status:  "ok",
			Version: *constants.GetVersion(),
		})
	})

	// Example: curl -X POST 'http://localhost:56213/events?deadline=90s' --data-binary @event.json
	r.Post("/events", func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			_ = req.Body.Close()
		}()

		budget := constants.DefaultLocalDeadline
		if raw := req.URL.Query().Get("deadline"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil || parsed <= 0 {
				writeErrorResponse(w, http.StatusBadRequest, "invalid deadline", "deadline must be a positive duration like 90s")
				return
			}
			budget = parsed
		}

		body, readErr := io.ReadAll(req.Body)
		if readErr != nil {
			writeErrorResponse(w, http.StatusBadRequest, "failed to read request body", readErr.Error())
			return
		}

		event, decodeErr := api.DecodeLifecycleEvent(body)
		if decodeErr != nil {
			writeErrorResponse(w, http.StatusBadRequest, "invalid event", decodeErr.Error())
			return
		}

		ctx := req.Context()
		if event.RequestID == "" {
			event.RequestID = middleware.GetReqID(ctx)
		}
		ctx = logger.WithRequestID(ctx, event.RequestID)

		verdict := orch.Handle(ctx, event, lifecycle.BudgetRemaining(ctx, now, budget))
		writeJSON(w, http.StatusOK, verdict)
	})

	return r
}

func requestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

			next.ServeHTTP(wrapped, req)

			log.Info("request handled", "request", map[string]any{
				"method":    req.Method,
				"path":      req.URL.Path,
				"status":    wrapped.Status(),
				"duration":  time.Since(start).String(),
				"requestID": middleware.GetReqID(req.Context()),
			})
		})
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message, details string) {
	writeJSON(w, statusCode, api.ErrorResponse{Error: message, Details: details})
}
