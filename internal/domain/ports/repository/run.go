package repository

import (
	"context"

	"resolve-ai-agent/internal/domain/model"
)

// RunRepository persists workflow run records.
type RunRepository interface {
	Save(ctx context.Context, run *model.WorkflowRun) error
	Finish(ctx context.Context, id string, status model.RunStatus, lastError, artifactPath string) error
	FindByID(ctx context.Context, id string) (*model.WorkflowRun, error)
	List(ctx context.Context, limit int) ([]*model.WorkflowRun, error)
}
