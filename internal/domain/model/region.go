package model

// Clip is a placed media reference on a timeline track, identified by its
// half-open [Start, End) frame range.
type Clip struct {
	Name  string
	Track int
	Start int
	End   int
}

func (c Clip) Frames() int { return c.End - c.Start }

// Region returns the clip's frame range at the given timeline rate.
func (c Clip) Region(fps float64) MediaRegion {
	return MediaRegion{StartFrame: c.Start, EndFrame: c.End, FPS: fps}
}

// MediaRegion is a half-open frame range [StartFrame, EndFrame) on a
// timeline, read-only from the host's point of view.
type MediaRegion struct {
	StartFrame int
	EndFrame   int
	FPS        float64
}

func (r MediaRegion) Frames() int { return r.EndFrame - r.StartFrame }

// DurationSeconds derives the region length as (end-start)/fps.
func (r MediaRegion) DurationSeconds() float64 {
	if r.FPS <= 0 {
		return 0
	}
	return float64(r.Frames()) / r.FPS
}

// FitsWithin reports whether the region is no longer than maxSeconds.
// A region of exactly maxSeconds fits; one frame more does not.
func (r MediaRegion) FitsWithin(maxSeconds float64) bool {
	if maxSeconds <= 0 {
		return true
	}
	return r.DurationSeconds() <= maxSeconds
}
