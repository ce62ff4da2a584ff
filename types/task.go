package types

// TaskStatus is the normalized lifecycle state of a vendor-side async job.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

// Terminal reports whether the status is sticky: once a task reaches a
// terminal status, further polls must observe the same result.
func (s TaskStatus) Terminal() bool {
	return s == TaskSucceeded || s == TaskFailed
}

// TaskKind distinguishes the two async job types the pipeline tracks.
type TaskKind string

const (
	TaskReconstruction TaskKind = "reconstruction"
	TaskRemesh         TaskKind = "remesh"
)

// NormalizedStatus is the uniform shape derived from a vendor-specific task
// status payload. ResultURLs stays empty until the task succeeds.
type NormalizedStatus struct {
	TaskID       string            `json:"task_id"`
	Status       TaskStatus        `json:"status"`
	Progress     int               `json:"progress"`
	ResultURLs   map[string]string `json:"model_urls,omitempty"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
	// ProxyURL is a same-origin address for the glb binary, derived only
	// for a succeeded reconstruction task.
	ProxyURL string `json:"model_url_proxy,omitempty"`
	// Reason carries the vendor's failure message for failed tasks.
	Reason string `json:"reason,omitempty"`
}
