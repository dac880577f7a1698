package host

import (
	"fmt"
	"os"

	"resolve-ai-agent/internal/domain/model"
	"resolve-ai-agent/internal/domain/ports/adapter"
)

var _ adapter.Host = (*NoopHost)(nil)

// NoopHost stands in when no real editing host session is attached. It
// answers with a tiny fixed timeline and fakes renders by writing empty
// files, which keeps dev-mode workflows runnable end to end.
type NoopHost struct {
	page     string
	render   model.RenderSettings
	rendered string
}

func NewNoopHost() *NoopHost {
	return &NoopHost{page: "edit"}
}

func (h *NoopHost) CurrentPage() string         { return h.page }
func (h *NoopHost) OpenPage(page string)        { h.page = page }
func (h *NoopHost) FrameRate() (float64, error) { return 24, nil }

func (h *NoopHost) CurrentClip() (model.Clip, error) {
	return model.Clip{Name: "noop-clip", Track: 1, Start: 0, End: 120}, nil
}

func (h *NoopHost) VideoTrackCount() (int, error) { return 1, nil }

func (h *NoopHost) ClipsInTrack(track int) ([]model.Clip, error) {
	return []model.Clip{
		{Name: "noop-clip", Track: 1, Start: 0, End: 120},
		{Name: "noop-clip-2", Track: 1, Start: 120, End: 240},
	}, nil
}

func (h *NoopHost) SetPlayheadTimecode(tc string) error { return nil }

func (h *NoopHost) SetRenderSettings(s model.RenderSettings) error {
	h.render = s
	return nil
}

func (h *NoopHost) AddRenderJob() (string, error) { return "noop-render-job", nil }

func (h *NoopHost) StartRendering(jobID string) error {
	h.rendered = fmt.Sprintf("%s/%s.mp4", h.render.TargetDir, h.render.CustomName)
	return os.WriteFile(h.rendered, []byte{}, 0o644)
}

func (h *NoopHost) RenderJobStatus(jobID string) (model.RenderJobStatus, error) {
	return model.RenderJobStatus{State: model.RenderComplete, Completion: 100}, nil
}

func (h *NoopHost) ExportCurrentFrameAsStill(path string) (bool, error) {
	return true, os.WriteFile(path, []byte{}, 0o644)
}

func (h *NoopHost) ListMediaPool() ([]model.PoolClip, error) {
	return []model.PoolClip{{Name: "noop-media", FilePath: os.TempDir() + "/noop-media.mp4"}}, nil
}

func (h *NoopHost) ImportMedia(paths []string) ([]string, error) {
	ids := make([]string, len(paths))
	for i := range paths {
		ids[i] = fmt.Sprintf("noop-asset-%d", i)
	}
	return ids, nil
}

func (h *NoopHost) AppendToTimeline(assetIDs []string) error { return nil }
