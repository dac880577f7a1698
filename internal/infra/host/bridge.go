// Package host adapts the editing host's scripting surface into the
// operations the workflows need: region/still export, adjacent-clip
// lookup, and media-pool import.
package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"resolve-ai-agent/internal/domain"
	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/domain/ports/adapter"
	"resolve-ai-agent/internal/infra/metrics"
	"resolve-ai-agent/internal/infra/poll"
)

type Options struct {
	Format        string        // render format, e.g. MP4
	Codec         string        // render codec, e.g. H264
	RenderTimeout time.Duration // budget for one export
	PollInterval  time.Duration
	LogInterval   time.Duration
	Sleep         poll.SleepFunc // test seam, nil for real sleep
}

func (o *Options) normalize() {
	if o.Format == "" {
		o.Format = "MP4"
	}
	if o.Codec == "" {
		o.Codec = "H264"
	}
	if o.RenderTimeout <= 0 {
		o.RenderTimeout = 5 * time.Minute
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.LogInterval <= 0 {
		o.LogInterval = 10 * time.Second
	}
}

// Bridge drives the host through adapter.Host. One bridge serves one host
// session; callers must not run two exports concurrently.
type Bridge struct {
	host adapter.Host
	log  *zerolog.Logger
	opts Options
}

func NewBridge(h adapter.Host, log *zerolog.Logger, opts Options) *Bridge {
	opts.normalize()
	return &Bridge{host: h, log: log, opts: opts}
}

// FrameRate reads the timeline rate, defaulting to 24 when the host has
// no setting.
func (b *Bridge) FrameRate() float64 {
	fps, err := b.host.FrameRate()
	if err != nil || fps <= 0 {
		return 24
	}
	return fps
}

// CurrentClip returns the clip under the playhead.
func (b *Bridge) CurrentClip() (model.Clip, error) {
	c, err := b.host.CurrentClip()
	if err != nil {
		return model.Clip{}, fmt.Errorf("%w: no clip under the playhead", domain.ErrNotFound)
	}
	return c, nil
}

// ExportRegion renders exactly [region.StartFrame, region.EndFrame) to
// outputPath via the host's render queue, blocking until the job reaches
// a terminal state. Whatever UI page was active before the export is
// restored on every outcome.
func (b *Bridge) ExportRegion(ctx context.Context, region model.MediaRegion, outputPath string) error {
	page := b.host.CurrentPage()
	start := time.Now()

	err := b.exportRegion(ctx, region, outputPath)
	b.host.OpenPage(page)

	metrics.ObserveExport("region", time.Since(start).Seconds(), err == nil)
	return err
}

func (b *Bridge) exportRegion(ctx context.Context, region model.MediaRegion, outputPath string) error {
	fps := int(region.FPS)
	inTC := model.FrameToTimecode(region.StartFrame, fps)
	outTC := model.FrameToTimecode(region.EndFrame-1, fps)
	b.log.Info().
		Int("frames", region.Frames()).
		Str("in", inTC).Str("out", outTC).
		Msg("exporting region")

	dir := filepath.Dir(outputPath)
	name := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))

	err := b.host.SetRenderSettings(model.RenderSettings{
		MarkIn:     region.StartFrame,
		MarkOut:    region.EndFrame - 1,
		TargetDir:  dir,
		CustomName: name,
		Format:     b.opts.Format,
		Codec:      b.opts.Codec,
		Video:      true,
		Audio:      true,
	})
	if err != nil {
		return fmt.Errorf("%w: render settings: %v", domain.ErrExport, err)
	}

	jobID, err := b.host.AddRenderJob()
	if err != nil || jobID == "" {
		return fmt.Errorf("%w: could not queue render job", domain.ErrExport)
	}
	if err := b.host.StartRendering(jobID); err != nil {
		return fmt.Errorf("%w: start render: %v", domain.ErrExport, err)
	}

	// The host chooses the produced name from CustomName + format.
	producedPath := filepath.Join(dir, name+"."+strings.ToLower(b.opts.Format))

	check := func(ctx context.Context) (model.JobStatus, error) {
		st, err := b.host.RenderJobStatus(jobID)
		if err != nil {
			return model.JobStatus{}, fmt.Errorf("%w: render status: %v", domain.ErrExport, err)
		}
		switch st.State {
		case model.RenderComplete:
			return model.Succeeded(producedPath), nil
		case model.RenderFailed:
			reason := st.Error
			if reason == "" {
				reason = "unknown error"
			}
			return model.Failed(reason), nil
		case model.RenderCancelled:
			return model.Failed("render was cancelled"), nil
		default:
			return model.Running(st.Completion), nil
		}
	}

	if _, err := poll.UntilComplete(ctx, model.JobHandle(jobID), check, poll.Options{
		Interval:    b.opts.PollInterval,
		MaxWait:     b.opts.RenderTimeout,
		LogInterval: b.opts.LogInterval,
		Logger:      b.log,
		Sleep:       b.opts.Sleep,
	}); err != nil {
		return err
	}

	if _, err := os.Stat(producedPath); err != nil {
		return fmt.Errorf("%w: render complete but file missing: %s", domain.ErrExport, producedPath)
	}
	if producedPath != outputPath {
		if err := os.Rename(producedPath, outputPath); err != nil {
			return fmt.Errorf("%w: move %s: %v", domain.ErrExport, producedPath, err)
		}
	}
	return nil
}

// ExportStill parks the playhead on frameNumber and exports a single
// frame to outputPath.
func (b *Bridge) ExportStill(ctx context.Context, frameNumber int, outputPath string) error {
	start := time.Now()
	err := b.exportStill(frameNumber, outputPath)
	metrics.ObserveExport("still", time.Since(start).Seconds(), err == nil)
	return err
}

func (b *Bridge) exportStill(frameNumber int, outputPath string) error {
	tc := model.FrameToTimecode(frameNumber, int(b.FrameRate()))
	if err := b.host.SetPlayheadTimecode(tc); err != nil {
		return fmt.Errorf("%w: set playhead %s: %v", domain.ErrExport, tc, err)
	}
	ok, err := b.host.ExportCurrentFrameAsStill(outputPath)
	if err != nil {
		return fmt.Errorf("%w: still export: %v", domain.ErrExport, err)
	}
	if _, statErr := os.Stat(outputPath); !ok || statErr != nil {
		return fmt.Errorf("%w: still export produced no file: %s", domain.ErrExport, outputPath)
	}
	b.log.Debug().Str("timecode", tc).Str("path", outputPath).Msg("exported still")
	return nil
}

// NextClip returns the clip under the playhead and its immediate
// successor on the same track, ordered by start frame.
func (b *Bridge) NextClip() (pivot, next model.Clip, err error) {
	pivot, err = b.CurrentClip()
	if err != nil {
		return model.Clip{}, model.Clip{}, err
	}

	tracks, err := b.host.VideoTrackCount()
	if err != nil {
		return model.Clip{}, model.Clip{}, fmt.Errorf("%w: track listing: %v", domain.ErrNotFound, err)
	}
	for t := 1; t <= tracks; t++ {
		clips, err := b.host.ClipsInTrack(t)
		if err != nil {
			continue
		}
		sortClipsByStart(clips)
		for i, c := range clips {
			if c.Start == pivot.Start && i < len(clips)-1 {
				return c, clips[i+1], nil
			}
		}
	}
	return model.Clip{}, model.Clip{}, fmt.Errorf("%w: no clip after the one under the playhead", domain.ErrNotFound)
}

// ImportAndAppend brings a produced file into the media pool and appends
// it to the active timeline, in that order.
func (b *Bridge) ImportAndAppend(ctx context.Context, path string) error {
	assets, err := b.host.ImportMedia([]string{path})
	if err != nil || len(assets) == 0 {
		metrics.ObserveImport(false)
		return fmt.Errorf("%w: media pool rejected %s", domain.ErrImport, path)
	}
	if err := b.host.AppendToTimeline(assets); err != nil {
		metrics.ObserveImport(false)
		return fmt.Errorf("%w: append to timeline: %v", domain.ErrImport, err)
	}
	metrics.ObserveImport(true)
	b.log.Info().Str("path", path).Msg("imported and appended to timeline")
	return nil
}

// MediaFolder infers the project's media directory from the first pool
// entry that is backed by a real file.
func (b *Bridge) MediaFolder() (string, error) {
	pool, err := b.host.ListMediaPool()
	if err != nil {
		return "", fmt.Errorf("%w: media pool listing: %v", domain.ErrNotFound, err)
	}
	for _, c := range pool {
		if c.FilePath != "" {
			return filepath.Dir(c.FilePath), nil
		}
	}
	return "", fmt.Errorf("%w: media pool holds no media files", domain.ErrNotFound)
}

func sortClipsByStart(clips []model.Clip) {
	sort.Slice(clips, func(i, j int) bool { return clips[i].Start < clips[j].Start })
}
