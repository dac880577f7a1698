package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/domain/ports/repository"
)

var _ repository.RunRepository = (*RunRepo)(nil)

type RunRepo struct {
	store *Store
}

func NewRunRepo(store *Store) *RunRepo {
	return &RunRepo{store: store}
}

func (r *RunRepo) Save(ctx context.Context, run *model.WorkflowRun) error {
	_, err := r.store.conn.ExecContext(ctx, `
		INSERT INTO workflow_runs (id, kind, vendor, prompt, status, last_error, artifact_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			last_error = excluded.last_error,
			artifact_path = excluded.artifact_path,
			updated_at = excluded.updated_at`,
		run.ID, string(run.Kind), run.Vendor, run.Prompt, string(run.Status),
		run.LastError, run.ArtifactPath, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (r *RunRepo) Finish(ctx context.Context, id string, status model.RunStatus, lastError, artifactPath string) error {
	res, err := r.store.conn.ExecContext(ctx, `
		UPDATE workflow_runs
		SET status = ?, last_error = ?, artifact_path = ?, updated_at = ?
		WHERE id = ?`,
		string(status), lastError, artifactPath, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RunRepo) FindByID(ctx context.Context, id string) (*model.WorkflowRun, error) {
	row := r.store.conn.QueryRowContext(ctx, `
		SELECT id, kind, vendor, prompt, status, last_error, artifact_path, created_at, updated_at
		FROM workflow_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return run, err
}

func (r *RunRepo) List(ctx context.Context, limit int) ([]*model.WorkflowRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.store.conn.QueryContext(ctx, `
		SELECT id, kind, vendor, prompt, status, last_error, artifact_path, created_at, updated_at
		FROM workflow_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*model.WorkflowRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*model.WorkflowRun, error) {
	var run model.WorkflowRun
	var kind, status string
	if err := s.Scan(
		&run.ID, &kind, &run.Vendor, &run.Prompt, &status,
		&run.LastError, &run.ArtifactPath, &run.CreatedAt, &run.UpdatedAt,
	); err != nil {
		return nil, err
	}
	run.Kind = model.WorkflowKind(kind)
	run.Status = model.RunStatus(status)
	return &run, nil
}
