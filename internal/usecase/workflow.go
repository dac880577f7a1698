// Package usecase holds one use case per workflow. Every workflow runs
// the same spine: export from the host, upload, submit to a vendor, wait,
// download, import back. Steps fail fast; temporary files are removed
// only after a successful import so partial work stays recoverable.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"resolve-ai-agent/internal/config"
	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/domain/ports/adapter"
	"resolve-ai-agent/internal/infra/metrics"
	"resolve-ai-agent/internal/infra/poll"
)

// HostBridge is the slice of the host bridge the workflows consume.
// *host.Bridge satisfies it.
type HostBridge interface {
	FrameRate() float64
	CurrentClip() (model.Clip, error)
	ExportRegion(ctx context.Context, region model.MediaRegion, outputPath string) error
	ExportStill(ctx context.Context, frameNumber int, outputPath string) error
	NextClip() (pivot, next model.Clip, err error)
	ImportAndAppend(ctx context.Context, path string) error
	MediaFolder() (string, error)
}

// deps is the plumbing shared by every workflow use case.
type deps struct {
	bridge   HostBridge
	transfer adapter.FileTransfer
	pollCfg  config.PollConfig
	tempDir  string
	log      *zerolog.Logger
	sleep    poll.SleepFunc // test seam, nil for real sleep
}

// tempPath builds a collision-free scratch path. Consecutive runs must
// never clobber each other's leftovers.
func (d *deps) tempPath(prefix, ext string) string {
	name := fmt.Sprintf("%s_%d_%s%s", prefix, time.Now().Unix(), uuid.NewString()[:8], ext)
	return filepath.Join(d.tempDir, name)
}

// submitAndFetch runs the generic submit/poll/download sequence shared by
// all polling vendors and leaves the result at outputPath.
func (d *deps) submitAndFetch(ctx context.Context, gen adapter.VideoGenerator, req model.JobRequest, outputPath string) error {
	handle, err := gen.Submit(ctx, req)
	if err != nil {
		return fmt.Errorf("submit to %s: %w", gen.Name(), err)
	}
	metrics.JobSubmitted(gen.Name())
	d.log.Info().Str("vendor", gen.Name()).Str("handle", handle.String()).Msg("job submitted")

	start := time.Now()
	resultURL, err := poll.UntilComplete(ctx, handle,
		func(ctx context.Context) (model.JobStatus, error) {
			return gen.CheckStatus(ctx, handle)
		},
		poll.Options{
			Interval:    d.pollCfg.Interval,
			MaxWait:     d.pollCfg.MaxWait,
			LogInterval: d.pollCfg.LogInterval,
			Vendor:      gen.Name(),
			Logger:      d.log,
			Sleep:       d.sleep,
		})
	wait := time.Since(start).Seconds()
	if err != nil {
		metrics.JobFinished(gen.Name(), outcomeOf(err), wait)
		return err
	}
	metrics.JobFinished(gen.Name(), "succeeded", wait)

	if err := d.transfer.Download(ctx, resultURL, outputPath); err != nil {
		return err
	}
	return nil
}

// deliver moves a produced file into the project media folder and appends
// it to the timeline. The returned path is the final artifact location.
func (d *deps) deliver(ctx context.Context, producedPath string) (string, error) {
	folder, err := d.bridge.MediaFolder()
	if err != nil {
		return "", err
	}
	finalPath := filepath.Join(folder, filepath.Base(producedPath))
	if finalPath != producedPath {
		if err := moveFile(producedPath, finalPath); err != nil {
			return "", fmt.Errorf("%w: move %s into project folder: %v", domain.ErrImport, producedPath, err)
		}
	}
	if err := d.bridge.ImportAndAppend(ctx, finalPath); err != nil {
		return "", err
	}
	return finalPath, nil
}

// cleanup removes scratch files after a fully successful run. Failures
// are logged, never escalated.
func (d *deps) cleanup(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			d.log.Warn().Str("path", p).Err(err).Msg("could not remove temp file")
		}
	}
}

// renameFile is a seam for moveFile tests.
var renameFile = os.Rename

// moveFile moves src to dst. The scratch dir and the project media
// folder routinely live on different filesystems, where a plain rename
// fails with EXDEV, so it falls back to copy and remove.
func moveFile(src, dst string) error {
	if err := renameFile(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func outcomeOf(err error) string {
	if errors.Is(err, domain.ErrTimeout) {
		return "timeout"
	}
	return "failed"
}

// normalizeChoice maps the UI's "Original" placeholder onto "use source".
func normalizeChoice(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), "original") {
		return ""
	}
	return strings.TrimSpace(v)
}
