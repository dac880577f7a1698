package api

import (
	"encoding/json"
	"net/http"
	"time"

	"resolve-ai-agent/internal/domain/model"
)

type RunResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Vendor    string    `json:"vendor,omitempty"`
	Prompt    string    `json:"prompt"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Artifact  string    `json:"artifact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func RunToResponse(run *model.WorkflowRun) RunResponse {
	return RunResponse{
		ID:        run.ID,
		Kind:      string(run.Kind),
		Vendor:    run.Vendor,
		Prompt:    run.Prompt,
		Status:    string(run.Status),
		Error:     run.LastError,
		Artifact:  run.ArtifactPath,
		CreatedAt: run.CreatedAt,
		UpdatedAt: run.UpdatedAt,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	UptimeS int64  `json:"uptime_s"`
	Busy    bool   `json:"busy"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}
