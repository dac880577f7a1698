package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"resolve-ai-agent/internal/application"
	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/domain/ports/repository"
)

// WorkflowStarter is the slice of the session the API consumes.
// *application.Session satisfies it.
type WorkflowStarter interface {
	Start(ctx context.Context, req application.WorkflowRequest) (*model.WorkflowRun, error)
	Busy() bool
}

type RouterConfig struct {
	Session   WorkflowStarter
	Runs      repository.RunRepository
	Logger    *zerolog.Logger
	StartTime time.Time
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/healthz", healthHandler(cfg))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/workflows", startWorkflowHandler(cfg))
		r.Get("/runs", listRunsHandler(cfg))
		r.Get("/runs/{id}", getRunHandler(cfg))
	})

	return r
}

func healthHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
			Busy:    cfg.Session.Busy(),
		})
	}
}

func startWorkflowHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req application.WorkflowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		switch req.Kind {
		case model.WorkflowEdit, model.WorkflowTransition, model.WorkflowSound, model.WorkflowGenerate:
		default:
			WriteError(w, http.StatusBadRequest, "unknown workflow kind")
			return
		}

		run, err := cfg.Session.Start(r.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrBusy):
				WriteError(w, http.StatusConflict, err.Error())
			case errors.Is(err, domain.ErrClosed):
				WriteError(w, http.StatusServiceUnavailable, err.Error())
			case errors.Is(err, domain.ErrValidation):
				WriteError(w, http.StatusBadRequest, err.Error())
			default:
				WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		WriteJSON(w, http.StatusAccepted, RunToResponse(run))
	}
}

func listRunsHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := cfg.Runs.List(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]RunResponse, 0, len(runs))
		for _, run := range runs {
			out = append(out, RunToResponse(run))
		}
		WriteJSON(w, http.StatusOK, out)
	}
}

func getRunHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := cfg.Runs.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "run not found")
				return
			}
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, RunToResponse(run))
	}
}
