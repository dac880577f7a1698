package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolve-ai-agent/internal/application"
	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/model"
)

type stubSession struct {
	busy    bool
	err     error
	started []application.WorkflowRequest
}

func (s *stubSession) Start(ctx context.Context, req application.WorkflowRequest) (*model.WorkflowRun, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.started = append(s.started, req)
	return model.NewWorkflowRun("run-1", req.Kind, req.Vendor, req.Prompt), nil
}

func (s *stubSession) Busy() bool { return s.busy }

type stubRunRepo struct {
	runs map[string]*model.WorkflowRun
}

func (r *stubRunRepo) Save(ctx context.Context, run *model.WorkflowRun) error { return nil }

func (r *stubRunRepo) Finish(ctx context.Context, id string, status model.RunStatus, lastError, artifactPath string) error {
	return nil
}

func (r *stubRunRepo) FindByID(ctx context.Context, id string) (*model.WorkflowRun, error) {
	if run, ok := r.runs[id]; ok {
		return run, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubRunRepo) List(ctx context.Context, limit int) ([]*model.WorkflowRun, error) {
	out := make([]*model.WorkflowRun, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run)
	}
	return out, nil
}

func newTestRouter(session *stubSession, runs *stubRunRepo) http.Handler {
	nop := zerolog.Nop()
	if runs == nil {
		runs = &stubRunRepo{runs: map[string]*model.WorkflowRun{}}
	}
	return NewRouter(RouterConfig{
		Session:   session,
		Runs:      runs,
		Logger:    &nop,
		StartTime: time.Now(),
	})
}

func TestStartWorkflowAccepted(t *testing.T) {
	t.Parallel()

	session := &stubSession{}
	router := newTestRouter(session, nil)

	rec := httptest.NewRecorder()
	body := `{"kind":"edit","prompt":"make it rain","vendor":"grok"}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/workflows", strings.NewReader(body)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.ID)
	assert.Equal(t, "edit", resp.Kind)
	assert.Equal(t, "running", resp.Status)
	require.Len(t, session.started, 1)
	assert.Equal(t, "make it rain", session.started[0].Prompt)
}

func TestStartWorkflowRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	session := &stubSession{}
	router := newTestRouter(session, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/workflows", strings.NewReader(`{"kind":"remix"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, session.started)
}

func TestStartWorkflowRejectsBadJSON(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubSession{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/workflows", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartWorkflowBusyConflict(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubSession{err: domain.ErrBusy}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/workflows", strings.NewReader(`{"kind":"edit","prompt":"p"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetRun(t *testing.T) {
	t.Parallel()

	runs := &stubRunRepo{runs: map[string]*model.WorkflowRun{
		"run-7": model.NewWorkflowRun("run-7", model.WorkflowSound, "elevenlabs", "door slam"),
	}}
	router := newTestRouter(&stubSession{}, runs)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/run-7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sound", resp.Kind)
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubSession{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	runs := &stubRunRepo{runs: map[string]*model.WorkflowRun{
		"run-1": model.NewWorkflowRun("run-1", model.WorkflowEdit, "grok", "a"),
		"run-2": model.NewWorkflowRun("run-2", model.WorkflowGenerate, "veo", "b"),
	}}
	router := newTestRouter(&stubSession{}, runs)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubSession{busy: true}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Busy)
}

func TestRequestIDEchoed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubSession{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-abc")
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-abc", rec.Header().Get("X-Request-ID"))
}
