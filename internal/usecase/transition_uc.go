package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"resolve-ai-agent/internal/config"
	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/domain/ports/adapter"
	"resolve-ai-agent/internal/infra/poll"
)

// Compile-time check
var _ TransitionUseCase = (*transitionUC)(nil)

// defaultTransitionPrompt is used when the user leaves the prompt empty;
// transitions are the one workflow where that is allowed.
const defaultTransitionPrompt = "A smooth cinematic transition"

type TransitionParams struct {
	Prompt      string
	Vendor      string
	AspectRatio string
}

// TransitionUseCase interpolates a generated transition between the clip
// under the playhead and its successor.
type TransitionUseCase interface {
	Run(ctx context.Context, p TransitionParams) (artifactPath string, err error)
}

type transitionUC struct {
	deps
	vendors VendorPicker
}

func NewTransitionUseCase(bridge HostBridge, transfer adapter.FileTransfer, vendors VendorPicker,
	pollCfg config.PollConfig, tempDir string, log *zerolog.Logger, sleep poll.SleepFunc) *transitionUC {
	return &transitionUC{
		deps:    deps{bridge: bridge, transfer: transfer, pollCfg: pollCfg, tempDir: tempDir, log: log, sleep: sleep},
		vendors: vendors,
	}
}

func (u *transitionUC) Run(ctx context.Context, p TransitionParams) (string, error) {
	prompt := strings.TrimSpace(p.Prompt)
	if prompt == "" {
		prompt = defaultTransitionPrompt
		u.log.Info().Str("prompt", prompt).Msg("no prompt entered, using default")
	}
	gen, err := u.vendors.Pick(p.Vendor)
	if err != nil {
		return "", err
	}

	pivot, next, err := u.bridge.NextClip()
	if err != nil {
		return "", err
	}
	u.log.Info().Str("from", pivot.Name).Str("to", next.Name).Msg("generating transition")

	// Last frame of the outgoing clip, first frame of the incoming one.
	framePaths := [2]string{u.tempPath("frame0", ".jpg"), u.tempPath("frame1", ".jpg")}
	if err := u.bridge.ExportStill(ctx, pivot.End-1, framePaths[0]); err != nil {
		return "", err
	}
	if err := u.bridge.ExportStill(ctx, next.Start, framePaths[1]); err != nil {
		return "", err
	}

	frameURLs := make([]string, 0, 2)
	for _, fp := range framePaths {
		url, err := u.transfer.Upload(ctx, fp)
		if err != nil {
			return "", err
		}
		frameURLs = append(frameURLs, url)
	}

	resultPath := u.tempPath("transition", ".mp4")
	req := model.JobRequest{
		Vendor:      gen.Name(),
		Prompt:      prompt,
		FrameURLs:   frameURLs,
		AspectRatio: normalizeChoice(p.AspectRatio),
	}
	if err := u.submitAndFetch(ctx, gen, req, resultPath); err != nil {
		return "", err
	}

	finalPath, err := u.deliver(ctx, resultPath)
	if err != nil {
		return "", err
	}
	u.cleanup(framePaths[0], framePaths[1])
	return finalPath, nil
}
