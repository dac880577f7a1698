package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/ports/adapter"
)

// Compile-time check
var _ SoundUseCase = (*soundUC)(nil)

type SoundParams struct {
	Prompt string
}

// SoundUseCase synthesizes a sound effect and appends it to the
// timeline. The vendor is synchronous, so there is no job to poll.
type SoundUseCase interface {
	Run(ctx context.Context, p SoundParams) (artifactPath string, err error)
}

type soundUC struct {
	deps
	sound adapter.SoundGenerator
}

func NewSoundUseCase(bridge HostBridge, sound adapter.SoundGenerator, tempDir string, log *zerolog.Logger) *soundUC {
	return &soundUC{
		deps:  deps{bridge: bridge, tempDir: tempDir, log: log},
		sound: sound,
	}
}

func (u *soundUC) Run(ctx context.Context, p SoundParams) (string, error) {
	prompt := strings.TrimSpace(p.Prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: empty sound effect prompt", domain.ErrValidation)
	}

	soundPath := u.tempPath(slugify(prompt), ".mp3")
	if err := u.sound.Generate(ctx, prompt, soundPath); err != nil {
		return "", err
	}
	u.log.Info().Str("path", soundPath).Msg("sound effect generated")

	return u.deliver(ctx, soundPath)
}

// slugify turns a prompt into a filename stem, the way users expect to
// find their effect in the media pool.
func slugify(prompt string) string {
	s := strings.Join(strings.Fields(prompt), "_")
	if len(s) > 48 {
		s = s[:48]
	}
	return s
}
