package types

// SelectFileRequest is the JSON form of POST /api/self/v1/select-file.
// The multipart form variant carries the file directly instead.
type SelectFileRequest struct {
	FileUrl  string `json:"fileUrl"`            // supports file:// protocol
	FileType string `json:"fileType,omitempty"` // overrides extension-based detection
}

// SelectVariantRequest is the body of POST /api/self/v1/variant.
type SelectVariantRequest struct {
	Variant string `json:"variant"`
}

// ProcessResponse reports the outcome of POST /api/self/v1/process.
type ProcessResponse struct {
	Started  bool            `json:"started"`
	Snapshot SessionSnapshot `json:"snapshot"`
}

// DownloadResponse reports where an exported prediction was written.
type DownloadResponse struct {
	Path string `json:"path"`
}

// ServiceHealth aggregates the remote /health payload with a host
// reachability probe.
type ServiceHealth struct {
	Reachable    bool   `json:"reachable"`
	Status       string `json:"status,omitempty"`
	ModelsLoaded bool   `json:"modelsLoaded"`
	Error        string `json:"error,omitempty"`
}
