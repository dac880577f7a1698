package model

// JobRequest describes a generation or edit request before it is mapped
// onto a vendor wire shape. Immutable once submitted.
type JobRequest struct {
	Vendor      string
	Prompt      string
	VideoURL    string   // source video to edit, when present
	FrameURLs   []string // keyframe stills (first, last), when present
	AspectRatio string   // "" keeps the source aspect
	Resolution  string   // "" keeps the source resolution
	DurationSec int      // 0 lets the vendor decide
}

// JobHandle is the vendor-opaque identifier returned on submission. It is
// the sole key for subsequent status checks.
type JobHandle string

func (h JobHandle) String() string { return string(h) }

type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

// ProgressUnknown marks a status with no vendor-reported percentage.
const ProgressUnknown = -1

// JobStatus is the normalized view of a vendor's status vocabulary.
// Transitions never leave a terminal state.
type JobStatus struct {
	State     JobState
	Progress  int    // 0-100, ProgressUnknown when the vendor reports none
	ResultURL string // set when State == JobSucceeded
	Reason    string // set when State == JobFailed
}

func (s JobStatus) IsTerminal() bool {
	return s.State == JobSucceeded || s.State == JobFailed
}

func Pending() JobStatus {
	return JobStatus{State: JobPending, Progress: ProgressUnknown}
}

func Running(progress int) JobStatus {
	return JobStatus{State: JobRunning, Progress: progress}
}

func Succeeded(url string) JobStatus {
	return JobStatus{State: JobSucceeded, Progress: 100, ResultURL: url}
}

func Failed(reason string) JobStatus {
	return JobStatus{State: JobFailed, Progress: ProgressUnknown, Reason: reason}
}

// TransferredFile pairs a local path with its ephemeral remote URL. The
// URL expiry is owned by the temporary file host, not by us.
type TransferredFile struct {
	LocalPath string
	RemoteURL string
}
