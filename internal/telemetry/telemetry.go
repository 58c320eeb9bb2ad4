// Package telemetry defines the flat records lumo stores: normalized metric
// points, normalized log events, hook notifications and the session
// aggregates derived from events.
package telemetry

// UnknownSessionID is used when a point or record carries no session.id.
const UnknownSessionID = "unknown"

// Metric is one OTLP metric data point flattened for storage.
type Metric struct {
	ID        string  `json:"id"`
	SessionID string  `json:"sessionId"`
	Name      string  `json:"name"`
	Timestamp int64   `json:"timestamp"` // unix milliseconds
	Value     float64 `json:"value"`

	MetricType     *string `json:"metricType,omitempty"`
	Model          *string `json:"model,omitempty"`
	Tool           *string `json:"tool,omitempty"`
	Decision       *string `json:"decision,omitempty"`
	Language       *string `json:"language,omitempty"`
	AccountUUID    *string `json:"accountUuid,omitempty"`
	OrganizationID *string `json:"organizationId,omitempty"`
	TerminalType   *string `json:"terminalType,omitempty"`
	AppVersion     *string `json:"appVersion,omitempty"`
	UserID         *string `json:"userId,omitempty"`
	UserEmail      *string `json:"userEmail,omitempty"`
	Unit           *string `json:"unit,omitempty"`
	Description    *string `json:"description,omitempty"`

	// Resource is the resource attribute map serialized as a JSON object.
	Resource *string `json:"resource,omitempty"`
}

// Event is one OTLP log record flattened for storage.
type Event struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds

	DurationMs          *int64   `json:"durationMs,omitempty"`
	Success             *bool    `json:"success,omitempty"`
	Error               *string  `json:"error,omitempty"`
	Model               *string  `json:"model,omitempty"`
	CostUSD             *float64 `json:"costUsd,omitempty"`
	InputTokens         *int64   `json:"inputTokens,omitempty"`
	OutputTokens        *int64   `json:"outputTokens,omitempty"`
	CacheReadTokens     *int64   `json:"cacheReadTokens,omitempty"`
	CacheCreationTokens *int64   `json:"cacheCreationTokens,omitempty"`
	StatusCode          *int32   `json:"statusCode,omitempty"`
	Attempt             *int32   `json:"attempt,omitempty"`
	ToolName            *string  `json:"toolName,omitempty"`
	ToolDecision        *string  `json:"toolDecision,omitempty"`
	DecisionSource      *string  `json:"decisionSource,omitempty"`
	ToolParameters      *string  `json:"toolParameters,omitempty"`
	PromptLength        *int64   `json:"promptLength,omitempty"`
	Prompt              *string  `json:"prompt,omitempty"`
	AccountUUID         *string  `json:"accountUuid,omitempty"`
	OrganizationID      *string  `json:"organizationId,omitempty"`
	TerminalType        *string  `json:"terminalType,omitempty"`
	AppVersion          *string  `json:"appVersion,omitempty"`
	UserID              *string  `json:"userId,omitempty"`
	UserEmail           *string  `json:"userEmail,omitempty"`
	EventSequence       *int64   `json:"eventSequence,omitempty"`
	ToolResultSizeBytes *int64   `json:"toolResultSizeBytes,omitempty"`

	Resource *string `json:"resource,omitempty"`

	// ReceivedAt is set by storage on read; it is empty on freshly parsed events.
	ReceivedAt string `json:"receivedAt,omitempty"`
}
