package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"resolve-ai-agent/internal/config"
	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/domain/ports/adapter"
	"resolve-ai-agent/internal/infra/poll"
)

// Compile-time check
var _ GenerateUseCase = (*generateUC)(nil)

type GenerateParams struct {
	Prompt      string
	Vendor      string
	AspectRatio string
	Resolution  string
	DurationSec int
}

// GenerateUseCase creates a clip from a text prompt alone (no source
// media) and appends it to the timeline.
type GenerateUseCase interface {
	Run(ctx context.Context, p GenerateParams) (artifactPath string, err error)
}

type generateUC struct {
	deps
	vendors VendorPicker
}

func NewGenerateUseCase(bridge HostBridge, transfer adapter.FileTransfer, vendors VendorPicker,
	pollCfg config.PollConfig, tempDir string, log *zerolog.Logger, sleep poll.SleepFunc) *generateUC {
	return &generateUC{
		deps:    deps{bridge: bridge, transfer: transfer, pollCfg: pollCfg, tempDir: tempDir, log: log, sleep: sleep},
		vendors: vendors,
	}
}

func (u *generateUC) Run(ctx context.Context, p GenerateParams) (string, error) {
	prompt := strings.TrimSpace(p.Prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: empty generation prompt", domain.ErrValidation)
	}
	gen, err := u.vendors.Pick(p.Vendor)
	if err != nil {
		return "", err
	}

	resultPath := u.tempPath("generated", ".mp4")
	req := model.JobRequest{
		Vendor:      gen.Name(),
		Prompt:      prompt,
		AspectRatio: normalizeChoice(p.AspectRatio),
		Resolution:  normalizeChoice(p.Resolution),
		DurationSec: p.DurationSec,
	}
	if err := u.submitAndFetch(ctx, gen, req, resultPath); err != nil {
		return "", err
	}

	return u.deliver(ctx, resultPath)
}
