package telemetry

// Session is one row of the sessions view, aggregated from events.
type Session struct {
	ID                   string  `json:"id"`
	StartTime            int64   `json:"startTime"`
	EndTime              int64   `json:"endTime"`
	DurationMs           int64   `json:"durationMs"`
	EventCount           int64   `json:"eventCount"`
	APIRequestCount      int64   `json:"apiRequestCount"`
	ErrorCount           int64   `json:"errorCount"`
	ToolUseCount         int64   `json:"toolUseCount"`
	PromptCount          int64   `json:"promptCount"`
	TotalCostUSD         float64 `json:"totalCostUsd"`
	TotalInputTokens     int64   `json:"totalInputTokens"`
	TotalOutputTokens    int64   `json:"totalOutputTokens"`
	TotalCacheReadTokens int64   `json:"totalCacheReadTokens"`
	AccountUUID          *string `json:"accountUuid,omitempty"`
	OrganizationID       *string `json:"organizationId,omitempty"`
	TerminalType         *string `json:"terminalType,omitempty"`
	AppVersion           *string `json:"appVersion,omitempty"`
}

// SessionsSummary totals every session in the store.
type SessionsSummary struct {
	SessionCount      int64   `json:"sessionCount"`
	TotalCostUSD      float64 `json:"totalCostUsd"`
	TotalInputTokens  int64   `json:"totalInputTokens"`
	TotalOutputTokens int64   `json:"totalOutputTokens"`
	TotalAPIRequests  int64   `json:"totalApiRequests"`
	TotalErrors       int64   `json:"totalErrors"`
	TotalToolUses     int64   `json:"totalToolUses"`
}

// TokenUsageByModel sums the token usage metric for one model and token type.
type TokenUsageByModel struct {
	Model     string  `json:"model"`
	TokenType string  `json:"tokenType"`
	Total     float64 `json:"total"`
}
