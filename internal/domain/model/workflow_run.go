package model

import "time"

type WorkflowKind string

const (
	WorkflowEdit       WorkflowKind = "edit"
	WorkflowTransition WorkflowKind = "transition"
	WorkflowSound      WorkflowKind = "sound"
	WorkflowGenerate   WorkflowKind = "generate"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// WorkflowRun is the persisted record of one workflow execution.
type WorkflowRun struct {
	ID           string
	Kind         WorkflowKind
	Vendor       string
	Prompt       string
	Status       RunStatus
	LastError    string
	ArtifactPath string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewWorkflowRun(id string, kind WorkflowKind, vendor, prompt string) *WorkflowRun {
	now := time.Now()
	return &WorkflowRun{
		ID:        id,
		Kind:      kind,
		Vendor:    vendor,
		Prompt:    prompt,
		Status:    RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
