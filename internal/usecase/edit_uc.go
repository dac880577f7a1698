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
var _ EditUseCase = (*editUC)(nil)

type EditParams struct {
	Prompt      string
	Vendor      string
	AspectRatio string
	Resolution  string
}

// EditUseCase transforms the clip under the playhead with a
// video-to-video vendor and appends the result to the timeline.
type EditUseCase interface {
	Run(ctx context.Context, p EditParams) (artifactPath string, err error)
}

type editUC struct {
	deps
	vendors VendorPicker
}

// VendorPicker resolves a vendor name to its adapter.
// *vendor.Registry satisfies it.
type VendorPicker interface {
	Pick(name string) (adapter.VideoGenerator, error)
}

func NewEditUseCase(bridge HostBridge, transfer adapter.FileTransfer, vendors VendorPicker,
	pollCfg config.PollConfig, tempDir string, log *zerolog.Logger, sleep poll.SleepFunc) *editUC {
	return &editUC{
		deps:    deps{bridge: bridge, transfer: transfer, pollCfg: pollCfg, tempDir: tempDir, log: log, sleep: sleep},
		vendors: vendors,
	}
}

func (u *editUC) Run(ctx context.Context, p EditParams) (string, error) {
	prompt := strings.TrimSpace(p.Prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: empty edit prompt", domain.ErrValidation)
	}
	gen, err := u.vendors.Pick(p.Vendor)
	if err != nil {
		return "", err
	}

	clip, err := u.bridge.CurrentClip()
	if err != nil {
		return "", err
	}
	region := clip.Region(u.bridge.FrameRate())
	if max := gen.MaxSourceSeconds(); !region.FitsWithin(max) {
		return "", fmt.Errorf("%w: clip is %.2fs, %s accepts at most %.1fs",
			domain.ErrValidation, region.DurationSeconds(), gen.Name(), max)
	}
	u.log.Info().Str("clip", clip.Name).Float64("seconds", region.DurationSeconds()).Msg("editing clip")

	exportPath := u.tempPath("clip", ".mp4")
	if err := u.bridge.ExportRegion(ctx, region, exportPath); err != nil {
		return "", err
	}

	sourceURL, err := u.transfer.Upload(ctx, exportPath)
	if err != nil {
		return "", err
	}

	resultPath := u.tempPath("edited", ".mp4")
	req := model.JobRequest{
		Vendor:      gen.Name(),
		Prompt:      prompt,
		VideoURL:    sourceURL,
		AspectRatio: normalizeChoice(p.AspectRatio),
		Resolution:  normalizeChoice(p.Resolution),
	}
	if err := u.submitAndFetch(ctx, gen, req, resultPath); err != nil {
		return "", err
	}

	finalPath, err := u.deliver(ctx, resultPath)
	if err != nil {
		return "", err
	}
	u.cleanup(exportPath)
	return finalPath, nil
}
