package adapter

import (
	"context"

	"resolve-ai-agent/internal/domain/model"
)

// VideoGenerator is the port for asynchronous generative-video vendors.
// Submit returns an opaque handle; CheckStatus normalizes the vendor's
// status vocabulary onto model.JobStatus. Every handle obtained from
// Submit must be polled to a terminal state or reported as a timeout.
type VideoGenerator interface {
	// Name identifies the vendor in logs, metrics and run records.
	Name() string

	// MaxSourceSeconds is the vendor's source-clip duration ceiling.
	// Zero means no limit.
	MaxSourceSeconds() float64

	Submit(ctx context.Context, req model.JobRequest) (model.JobHandle, error)
	CheckStatus(ctx context.Context, handle model.JobHandle) (model.JobStatus, error)
}

// SoundGenerator is the port for single-shot sound synthesis. The vendor
// returns the artifact directly; there is no handle and no polling.
type SoundGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt, outputPath string) error
}
