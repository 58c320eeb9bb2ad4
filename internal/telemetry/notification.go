package telemetry

// NewNotification is a hook notification waiting to be inserted.
type NewNotification struct {
	SessionID        string
	HookEvent        string
	NotificationType *string
	Title            string
	Message          string
	CWD              *string
	TranscriptPath   *string
}

// Notification is a stored hook notification.
type Notification struct {
	ID               int64   `json:"id"`
	SessionID        string  `json:"sessionId"`
	HookEvent        string  `json:"hookEvent"`
	NotificationType *string `json:"notificationType,omitempty"`
	Title            string  `json:"title"`
	Message          string  `json:"message"`
	CWD              *string `json:"cwd,omitempty"`
	TranscriptPath   *string `json:"transcriptPath,omitempty"`
	Notified         bool    `json:"notified"`
	Read             bool    `json:"read"`
	CreatedAt        int64   `json:"createdAt"` // unix milliseconds
}

// DefaultTitle returns the title used when a hook does not send one.
func DefaultTitle(hookEvent string) string {
	switch hookEvent {
	case "Notification":
		return "Claude Code"
	case "Stop":
		return "Task Completed"
	case "SessionEnd":
		return "Session Ended"
	default:
		return "Claude Code — " + hookEvent
	}
}

// DefaultMessage returns the message used when a hook does not send one.
func DefaultMessage(hookEvent string) string {
	switch hookEvent {
	case "Notification":
		return "Claude Code needs your attention."
	case "Stop":
		return "Claude Code has finished the current task."
	case "SessionEnd":
		return "The Claude Code session has ended."
	default:
		return "Hook event: " + hookEvent
	}
}
