package model

// RenderSettings scopes a host render job to an exact frame range.
// MarkOut is inclusive, matching the host's render API.
type RenderSettings struct {
	MarkIn     int
	MarkOut    int
	TargetDir  string
	CustomName string
	Format     string
	Codec      string
	Video      bool
	Audio      bool
}

type RenderState string

const (
	RenderQueued    RenderState = "Queued"
	RenderRendering RenderState = "Rendering"
	RenderComplete  RenderState = "Complete"
	RenderFailed    RenderState = "Failed"
	RenderCancelled RenderState = "Cancelled"
)

// RenderJobStatus is the host's view of a queued render job.
type RenderJobStatus struct {
	State      RenderState
	Completion int // percent
	Error      string
}

// PoolClip is an entry in the host's media pool (asset library),
// distinct from a timeline clip.
type PoolClip struct {
	Name     string
	FilePath string
}
