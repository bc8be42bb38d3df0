package types

// AppConfig represents the daemon configuration loaded from config file.
// Also the body of the config API, hence the json tags.
type AppConfig struct {
	ServiceURL        string `yaml:"serviceUrl" json:"serviceUrl"`               // base URL of the inference service
	Port              int    `yaml:"port" json:"port"`                           // local self API port
	DownloadFolder    string `yaml:"downloadFolder" json:"downloadFolder"`       // where exported predictions land
	RequestTimeoutSec int    `yaml:"requestTimeoutSec" json:"requestTimeoutSec"` // transport deadline for /predict calls
	PreviewTTLMinutes int    `yaml:"previewTtlMinutes" json:"previewTtlMinutes"` // blob store expiry guard
	NotifyWS          bool   `yaml:"notifyWs" json:"notifyWs"`                   // push session events over websocket
}

// Config holds runtime overrides from CLI flags.
type Config struct {
	Log               string
	UseConfigPath     string
	UseServiceURL     string
	UsePort           int
	UseDownloadFolder string
	SkipNotifyWS      bool
}
