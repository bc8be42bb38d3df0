package types

// Notification event types pushed over the notify websocket.
const (
	NotifyTypeStatusChanged = "status_changed"
	NotifyTypeFileSelected  = "file_selected"
	NotifyTypeSessionReset  = "session_reset"
)

// Notification represents a notification message structure.
type Notification struct {
	Type    string         `json:"type,omitempty"`
	Title   string         `json:"title,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}
