// Package application composes the workflow use cases behind a single
// session object. The host session is shared mutable state, so exactly
// one workflow may run at a time.
package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/domain/ports/repository"
	"resolve-ai-agent/internal/infra/logging"
	"resolve-ai-agent/internal/usecase"
)

// WorkflowRequest is the one entry point for every workflow kind.
type WorkflowRequest struct {
	Kind        model.WorkflowKind `json:"kind"`
	Prompt      string             `json:"prompt"`
	Vendor      string             `json:"vendor,omitempty"`
	AspectRatio string             `json:"aspect_ratio,omitempty"`
	Resolution  string             `json:"resolution,omitempty"`
	DurationSec int                `json:"duration_sec,omitempty"`
}

// Session owns the run-once-at-a-time lifecycle: open -> run -> closed.
// A second Run while one is in flight fails with ErrBusy; every Run after
// Close fails with ErrClosed.
type Session struct {
	editUC       usecase.EditUseCase
	transitionUC usecase.TransitionUseCase
	soundUC      usecase.SoundUseCase
	generateUC   usecase.GenerateUseCase
	runs         repository.RunRepository
	log          *zerolog.Logger

	mu     sync.Mutex
	busy   bool
	closed bool
}

func NewSession(
	editUC usecase.EditUseCase,
	transitionUC usecase.TransitionUseCase,
	soundUC usecase.SoundUseCase,
	generateUC usecase.GenerateUseCase,
	runs repository.RunRepository,
	log *zerolog.Logger,
) *Session {
	return &Session{
		editUC:       editUC,
		transitionUC: transitionUC,
		soundUC:      soundUC,
		generateUC:   generateUC,
		runs:         runs,
		log:          log,
	}
}

// Run executes one workflow to completion and records its outcome.
func (s *Session) Run(ctx context.Context, req WorkflowRequest) (*model.WorkflowRun, error) {
	run, err := s.begin(ctx, req)
	if err != nil {
		return nil, err
	}
	defer s.release()
	return s.execute(ctx, req, run)
}

// Start begins a workflow and returns its run record without waiting for
// completion. The outcome lands in the run repository.
func (s *Session) Start(ctx context.Context, req WorkflowRequest) (*model.WorkflowRun, error) {
	run, err := s.begin(ctx, req)
	if err != nil {
		return nil, err
	}
	go func() {
		defer s.release()
		// The workflow outlives the originating HTTP request.
		_, _ = s.execute(context.WithoutCancel(ctx), req, run)
	}()
	// The goroutine keeps mutating run; callers get a snapshot.
	cp := *run
	return &cp, nil
}

func (s *Session) begin(ctx context.Context, req WorkflowRequest) (*model.WorkflowRun, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	run := model.NewWorkflowRun(uuid.NewString(), req.Kind, req.Vendor, req.Prompt)
	if err := s.runs.Save(ctx, run); err != nil {
		s.release()
		return nil, err
	}
	return run, nil
}

func (s *Session) execute(ctx context.Context, req WorkflowRequest, run *model.WorkflowRun) (*model.WorkflowRun, error) {
	ctx = logging.WithRunID(ctx, run.ID)
	log := logging.With(ctx, s.log)
	log.Info().Str("kind", string(req.Kind)).Msg("workflow started")

	artifact, err := s.dispatch(ctx, req)
	if err != nil {
		run.Status = model.RunStatusFailed
		run.LastError = err.Error()
		log.Error().Err(err).Msg("workflow failed")
	} else {
		run.Status = model.RunStatusSucceeded
		run.ArtifactPath = artifact
		log.Info().Str("artifact", artifact).Msg("workflow complete")
	}
	if ferr := s.runs.Finish(ctx, run.ID, run.Status, run.LastError, run.ArtifactPath); ferr != nil {
		log.Warn().Err(ferr).Msg("could not record workflow outcome")
	}
	return run, err
}

func (s *Session) dispatch(ctx context.Context, req WorkflowRequest) (string, error) {
	switch req.Kind {
	case model.WorkflowEdit:
		return s.editUC.Run(ctx, usecase.EditParams{
			Prompt:      req.Prompt,
			Vendor:      req.Vendor,
			AspectRatio: req.AspectRatio,
			Resolution:  req.Resolution,
		})
	case model.WorkflowTransition:
		return s.transitionUC.Run(ctx, usecase.TransitionParams{
			Prompt:      req.Prompt,
			Vendor:      req.Vendor,
			AspectRatio: req.AspectRatio,
		})
	case model.WorkflowSound:
		if s.soundUC == nil {
			return "", fmt.Errorf("%w: no sound vendor configured", domain.ErrValidation)
		}
		return s.soundUC.Run(ctx, usecase.SoundParams{Prompt: req.Prompt})
	case model.WorkflowGenerate:
		return s.generateUC.Run(ctx, usecase.GenerateParams{
			Prompt:      req.Prompt,
			Vendor:      req.Vendor,
			AspectRatio: req.AspectRatio,
			Resolution:  req.Resolution,
			DurationSec: req.DurationSec,
		})
	default:
		return "", fmt.Errorf("%w: unknown workflow kind %q", domain.ErrValidation, req.Kind)
	}
}

func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrClosed
	}
	if s.busy {
		return domain.ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Busy reports whether a workflow is currently in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Close ends the session; in-flight work finishes, new runs are refused.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
