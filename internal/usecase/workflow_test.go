package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"resolve-ai-agent/internal/config"
	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/domain/ports/adapter"
)

// stubBridge scripts the host side of a workflow. Exports write real
// files so downstream upload/cleanup paths see actual disk state.
type stubBridge struct {
	fps         float64
	clip        model.Clip
	clipErr     error
	next        model.Clip
	nextErr     error
	mediaDir    string
	regionCalls []model.MediaRegion
	stillFrames []int
	imported    []string
	importErr   error
}

func (s *stubBridge) FrameRate() float64 { return s.fps }

func (s *stubBridge) CurrentClip() (model.Clip, error) { return s.clip, s.clipErr }

func (s *stubBridge) ExportRegion(ctx context.Context, region model.MediaRegion, outputPath string) error {
	s.regionCalls = append(s.regionCalls, region)
	return os.WriteFile(outputPath, []byte("exported"), 0o644)
}

func (s *stubBridge) ExportStill(ctx context.Context, frameNumber int, outputPath string) error {
	s.stillFrames = append(s.stillFrames, frameNumber)
	return os.WriteFile(outputPath, []byte("still"), 0o644)
}

func (s *stubBridge) NextClip() (model.Clip, model.Clip, error) {
	return s.clip, s.next, s.nextErr
}

func (s *stubBridge) ImportAndAppend(ctx context.Context, path string) error {
	if s.importErr != nil {
		return s.importErr
	}
	s.imported = append(s.imported, path)
	return nil
}

func (s *stubBridge) MediaFolder() (string, error) { return s.mediaDir, nil }

// stubTransfer counts uploads and materializes downloads on disk.
type stubTransfer struct {
	uploads   []string
	uploadErr error
	downloads []string
}

func (s *stubTransfer) Upload(ctx context.Context, localPath string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads = append(s.uploads, localPath)
	return "https://tmpfiles.org/dl/1/" + filepath.Base(localPath), nil
}

func (s *stubTransfer) Download(ctx context.Context, remoteURL, localPath string) error {
	s.downloads = append(s.downloads, remoteURL)
	return os.WriteFile(localPath, []byte("result"), 0o644)
}

// stubGenerator succeeds after succeedAfter status checks.
type stubGenerator struct {
	name         string
	maxSeconds   float64
	succeedAfter int
	failWith     string
	submitted    []model.JobRequest
	checks       int
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) MaxSourceSeconds() float64 { return s.maxSeconds }

func (s *stubGenerator) Submit(ctx context.Context, req model.JobRequest) (model.JobHandle, error) {
	s.submitted = append(s.submitted, req)
	return "handle-1", nil
}

func (s *stubGenerator) CheckStatus(ctx context.Context, handle model.JobHandle) (model.JobStatus, error) {
	s.checks++
	if s.failWith != "" {
		return model.Failed(s.failWith), nil
	}
	if s.checks < s.succeedAfter {
		return model.Running(model.ProgressUnknown), nil
	}
	return model.Succeeded("https://vendor.example/out.mp4"), nil
}

type stubPicker struct{ gen adapter.VideoGenerator }

func (s *stubPicker) Pick(name string) (adapter.VideoGenerator, error) { return s.gen, nil }

func testPollCfg() config.PollConfig {
	return config.PollConfig{Interval: time.Second, MaxWait: 10 * time.Second, LogInterval: time.Minute}
}

func stubSleep(ctx context.Context, d time.Duration) error { return nil }

func newStubBridge(t *testing.T) *stubBridge {
	t.Helper()
	return &stubBridge{
		fps:      24,
		clip:     model.Clip{Name: "A001", Track: 1, Start: 0, End: 120},
		next:     model.Clip{Name: "A002", Track: 1, Start: 120, End: 240},
		mediaDir: t.TempDir(),
	}
}

func TestEditUseCaseHappyPath(t *testing.T) {
	t.Parallel()

	bridge := newStubBridge(t)
	files := &stubTransfer{}
	gen := &stubGenerator{name: "grok", maxSeconds: 8.7, succeedAfter: 2}
	nop := zerolog.Nop()
	uc := NewEditUseCase(bridge, files, &stubPicker{gen}, testPollCfg(), t.TempDir(), &nop, stubSleep)

	final, err := uc.Run(context.Background(), EditParams{Prompt: "make it rain"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The 5s clip at 24fps is exported as exactly 120 frames.
	if len(bridge.regionCalls) != 1 || bridge.regionCalls[0].Frames() != 120 {
		t.Fatalf("region calls = %+v, want one 120-frame export", bridge.regionCalls)
	}
	if len(files.uploads) != 1 {
		t.Fatalf("uploads = %v, want exactly one", files.uploads)
	}
	if len(gen.submitted) != 1 || gen.submitted[0].VideoURL == "" {
		t.Fatalf("submitted = %+v, want one request with a source video url", gen.submitted)
	}
	if gen.checks != 2 {
		t.Fatalf("status checked %d times, want 2", gen.checks)
	}
	if len(bridge.imported) != 1 || bridge.imported[0] != final {
		t.Fatalf("imported = %v, final = %q", bridge.imported, final)
	}
	if filepath.Dir(final) != bridge.mediaDir {
		t.Fatalf("final artifact %q not in media folder %q", final, bridge.mediaDir)
	}
	// Scratch export is gone after a successful run.
	if _, err := os.Stat(files.uploads[0]); !os.IsNotExist(err) {
		t.Fatalf("export temp file should be removed, stat err = %v", err)
	}
}

func TestEditUseCaseRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	bridge := newStubBridge(t)
	nop := zerolog.Nop()
	uc := NewEditUseCase(bridge, &stubTransfer{}, &stubPicker{&stubGenerator{name: "grok"}},
		testPollCfg(), t.TempDir(), &nop, stubSleep)

	if _, err := uc.Run(context.Background(), EditParams{Prompt: "   "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(bridge.regionCalls) != 0 {
		t.Fatalf("nothing should be exported for an invalid request")
	}
}

func TestEditUseCaseRejectsOverlongClip(t *testing.T) {
	t.Parallel()

	bridge := newStubBridge(t)
	bridge.clip = model.Clip{Name: "LONG", Track: 1, Start: 0, End: 240} // 10s at 24fps
	gen := &stubGenerator{name: "grok", maxSeconds: 8.7}
	nop := zerolog.Nop()
	uc := NewEditUseCase(bridge, &stubTransfer{}, &stubPicker{gen}, testPollCfg(), t.TempDir(), &nop, stubSleep)

	_, err := uc.Run(context.Background(), EditParams{Prompt: "p"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for an overlong clip, got %v", err)
	}
	if len(bridge.regionCalls) != 0 {
		t.Fatalf("overlong clip must be rejected before export")
	}
}

func TestEditUseCaseKeepsTempOnVendorFailure(t *testing.T) {
	t.Parallel()

	bridge := newStubBridge(t)
	files := &stubTransfer{}
	gen := &stubGenerator{name: "grok", maxSeconds: 8.7, failWith: "moderation"}
	nop := zerolog.Nop()
	uc := NewEditUseCase(bridge, files, &stubPicker{gen}, testPollCfg(), t.TempDir(), &nop, stubSleep)

	_, err := uc.Run(context.Background(), EditParams{Prompt: "p"})
	if !errors.Is(err, domain.ErrRemoteFailure) {
		t.Fatalf("expected ErrRemoteFailure, got %v", err)
	}
	// The exported source survives a failed run for retry and debugging.
	if _, statErr := os.Stat(files.uploads[0]); statErr != nil {
		t.Fatalf("export temp file should be kept after a failure: %v", statErr)
	}
	if len(bridge.imported) != 0 {
		t.Fatalf("nothing should be imported after a failure")
	}
}

func TestTransitionUseCaseStillFrames(t *testing.T) {
	t.Parallel()

	bridge := newStubBridge(t)
	files := &stubTransfer{}
	gen := &stubGenerator{name: "luma", succeedAfter: 1}
	nop := zerolog.Nop()
	uc := NewTransitionUseCase(bridge, files, &stubPicker{gen}, testPollCfg(), t.TempDir(), &nop, stubSleep)

	final, err := uc.Run(context.Background(), TransitionParams{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Last frame of the outgoing clip and first frame of the incoming one.
	if len(bridge.stillFrames) != 2 || bridge.stillFrames[0] != 119 || bridge.stillFrames[1] != 120 {
		t.Fatalf("still frames = %v, want [119 120]", bridge.stillFrames)
	}
	if len(files.uploads) != 2 {
		t.Fatalf("uploads = %v, want two keyframes", files.uploads)
	}
	req := gen.submitted[0]
	if len(req.FrameURLs) != 2 {
		t.Fatalf("request frame urls = %v, want two", req.FrameURLs)
	}
	if req.Prompt != "A smooth cinematic transition" {
		t.Fatalf("empty prompt should fall back to the default, got %q", req.Prompt)
	}
	if len(bridge.imported) != 1 || bridge.imported[0] != final {
		t.Fatalf("imported = %v, final = %q", bridge.imported, final)
	}
	for _, p := range files.uploads {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("still %s should be removed after success", p)
		}
	}
}

func TestTransitionUseCaseNoSuccessor(t *testing.T) {
	t.Parallel()

	bridge := newStubBridge(t)
	bridge.nextErr = domain.ErrNotFound
	nop := zerolog.Nop()
	uc := NewTransitionUseCase(bridge, &stubTransfer{}, &stubPicker{&stubGenerator{name: "luma"}},
		testPollCfg(), t.TempDir(), &nop, stubSleep)

	if _, err := uc.Run(context.Background(), TransitionParams{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(bridge.stillFrames) != 0 {
		t.Fatalf("no stills should be exported without a successor clip")
	}
}

type stubSound struct {
	prompts []string
	err     error
}

func (s *stubSound) Name() string { return "elevenlabs" }

func (s *stubSound) Generate(ctx context.Context, prompt, outputPath string) error {
	if s.err != nil {
		return s.err
	}
	s.prompts = append(s.prompts, prompt)
	return os.WriteFile(outputPath, []byte("mp3"), 0o644)
}

func TestSoundUseCase(t *testing.T) {
	t.Parallel()

	bridge := newStubBridge(t)
	sound := &stubSound{}
	nop := zerolog.Nop()
	uc := NewSoundUseCase(bridge, sound, t.TempDir(), &nop)

	final, err := uc.Run(context.Background(), SoundParams{Prompt: "heavy door slam"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sound.prompts) != 1 || sound.prompts[0] != "heavy door slam" {
		t.Fatalf("prompts = %v", sound.prompts)
	}
	base := filepath.Base(final)
	if base[:len("heavy_door_slam")] != "heavy_door_slam" {
		t.Fatalf("artifact name %q should start with the slugged prompt", base)
	}
	if len(bridge.imported) != 1 || bridge.imported[0] != final {
		t.Fatalf("imported = %v, final = %q", bridge.imported, final)
	}
}

func TestGenerateUseCaseNoHostExports(t *testing.T) {
	t.Parallel()

	bridge := newStubBridge(t)
	files := &stubTransfer{}
	gen := &stubGenerator{name: "veo", succeedAfter: 1}
	nop := zerolog.Nop()
	uc := NewGenerateUseCase(bridge, files, &stubPicker{gen}, testPollCfg(), t.TempDir(), &nop, stubSleep)

	final, err := uc.Run(context.Background(), GenerateParams{Prompt: "a sunrise", DurationSec: 5})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(bridge.regionCalls) != 0 || len(bridge.stillFrames) != 0 {
		t.Fatalf("text-to-video must not touch the timeline before import")
	}
	if gen.submitted[0].DurationSec != 5 {
		t.Fatalf("duration = %d, want 5", gen.submitted[0].DurationSec)
	}
	if len(bridge.imported) != 1 || bridge.imported[0] != final {
		t.Fatalf("imported = %v, final = %q", bridge.imported, final)
	}
}

func TestMoveFileRename(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "a.mp4")
	dst := filepath.Join(t.TempDir(), "b.mp4")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := moveFile(src, dst); err != nil {
		t.Fatalf("moveFile: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "payload" {
		t.Fatalf("dst content = %q, err %v", got, err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("src should be gone, stat err = %v", err)
	}
}

func TestMoveFileCopiesAcrossFilesystems(t *testing.T) {
	// Swaps the rename seam, so no t.Parallel.
	orig := renameFile
	renameFile = func(oldpath, newpath string) error {
		return errors.New("invalid cross-device link")
	}
	defer func() { renameFile = orig }()

	src := filepath.Join(t.TempDir(), "a.mp4")
	dst := filepath.Join(t.TempDir(), "b.mp4")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := moveFile(src, dst); err != nil {
		t.Fatalf("moveFile: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "payload" {
		t.Fatalf("dst content = %q, err %v", got, err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("src should be removed after the copy, stat err = %v", err)
	}
}

func TestNormalizeChoice(t *testing.T) {
	t.Parallel()

	if got := normalizeChoice("Original"); got != "" {
		t.Fatalf("normalizeChoice(Original) = %q, want empty", got)
	}
	if got := normalizeChoice(" 16:9 "); got != "16:9" {
		t.Fatalf("normalizeChoice = %q, want 16:9", got)
	}
}
