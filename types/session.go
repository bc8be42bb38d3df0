package types

// Status is the upload session lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusReady      Status = "ready"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// SessionSnapshot is the read-only view of the upload session returned by
// GET /api/self/v1/status.
type SessionSnapshot struct {
	Status      Status    `json:"status"`
	FileName    string    `json:"fileName,omitempty"`
	FileType    string    `json:"fileType,omitempty"`
	FileSize    int64     `json:"fileSize,omitempty"`
	PreviewRef  string    `json:"previewRef,omitempty"`
	Variant     Variant   `json:"variant"`
	Error       string    `json:"error,omitempty"`
	Result      *Artifact `json:"result,omitempty"`
	LiveHandles int       `json:"liveHandles"`
}
