package adapter

import "resolve-ai-agent/internal/domain/model"

// Host is the boundary to the video-editing host's scripting API. It is a
// collaborator we consume, never reimplement: the methods mirror the host
// project/timeline/media-pool surface one to one. The host session is
// shared mutable state with no concurrency control of its own, so callers
// must never drive two exports or imports at once.
type Host interface {
	// UI page, saved and restored around render jobs.
	CurrentPage() string
	OpenPage(page string)

	// Timeline state.
	FrameRate() (float64, error)
	CurrentClip() (model.Clip, error) // clip under the playhead
	VideoTrackCount() (int, error)
	ClipsInTrack(track int) ([]model.Clip, error)
	SetPlayheadTimecode(tc string) error

	// Render queue.
	SetRenderSettings(s model.RenderSettings) error
	AddRenderJob() (string, error)
	StartRendering(jobID string) error
	RenderJobStatus(jobID string) (model.RenderJobStatus, error)

	// Still export.
	ExportCurrentFrameAsStill(path string) (bool, error)

	// Media pool.
	ListMediaPool() ([]model.PoolClip, error)
	ImportMedia(paths []string) ([]string, error) // returns asset ids
	AppendToTimeline(assetIDs []string) error
}
