package otlp

import (
	"strings"

	"github.com/google/uuid"
	collectorlogsv1 "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	logsv1 "go.opentelemetry.io/proto/otlp/logs/v1"

	"lumo/internal/telemetry"
)

// EventNamePrefix namespaces every stored event name.
const EventNamePrefix = "claude_code."

// ParseLogs turns every log record in req into an event, in request order.
func ParseLogs(req *collectorlogsv1.ExportLogsServiceRequest) []telemetry.Event {
	var events []telemetry.Event
	for _, rl := range req.GetResourceLogs() {
		resource := resourceJSON(rl.GetResource())
		for _, sl := range rl.GetScopeLogs() {
			for _, lr := range sl.GetLogRecords() {
				events = append(events, NormalizeLogRecord(lr, resource))
			}
		}
	}
	return events
}

// NormalizeLogRecord builds the event for one log record. Every optional
// field is parsed on its own; a malformed value only drops that field.
func NormalizeLogRecord(lr *logsv1.LogRecord, resource *string) telemetry.Event {
	attrs := ExtractAttributes(lr.GetAttributes())
	return telemetry.Event{
		ID:                  uuid.New().String(),
		SessionID:           sessionID(attrs),
		Name:                NormalizeEventName(EventName(attrs, lr.GetBody())),
		Timestamp:           nanosToMillis(lr.GetTimeUnixNano()),
		DurationMs:          parseAttr(attrs, AttrDurationMs, parseInt64),
		Success:             parseAttr(attrs, AttrSuccess, parseSuccess),
		Error:               lookup(attrs, AttrError),
		Model:               lookup(attrs, AttrModel),
		CostUSD:             parseAttr(attrs, AttrCostUSD, parseFloat64),
		InputTokens:         parseAttr(attrs, AttrInputTokens, parseInt64),
		OutputTokens:        parseAttr(attrs, AttrOutputTokens, parseInt64),
		CacheReadTokens:     parseAttr(attrs, AttrCacheReadTokens, parseInt64),
		CacheCreationTokens: parseAttr(attrs, AttrCacheCreationTokens, parseInt64),
		StatusCode:          parseAttr(attrs, AttrStatusCode, parseInt32),
		Attempt:             parseAttr(attrs, AttrAttempt, parseInt32),
		ToolName:            lookup(attrs, AttrToolName),
		ToolDecision:        lookup(attrs, AttrDecision),
		DecisionSource:      lookup(attrs, AttrSource),
		ToolParameters:      lookup(attrs, AttrToolParameters),
		PromptLength:        parseAttr(attrs, AttrPromptLength, parseInt64),
		Prompt:              lookup(attrs, AttrPrompt),
		AccountUUID:         lookup(attrs, AttrAccountUUID),
		OrganizationID:      lookup(attrs, AttrOrganizationID),
		TerminalType:        lookup(attrs, AttrTerminalType),
		AppVersion:          lookup(attrs, AttrAppVersion),
		UserID:              lookup(attrs, AttrUserID),
		UserEmail:           lookup(attrs, AttrUserEmail),
		EventSequence:       parseAttr(attrs, AttrEventSequence, parseInt64),
		ToolResultSizeBytes: parseAttr(attrs, AttrToolResultSizeBytes, parseInt64),
		Resource:            resource,
	}
}

// EventName picks the raw event name: the event.name attribute, then a
// scalar body, then "unknown".
func EventName(attrs map[string]string, body *commonv1.AnyValue) string {
	if name, ok := attrs[AttrEventName]; ok {
		return name
	}
	if name, ok := scalarString(body); ok {
		return name
	}
	return "unknown"
}

// NormalizeEventName prefixes name with EventNamePrefix unless it already
// has it. Applying it twice is the same as applying it once.
func NormalizeEventName(name string) string {
	if strings.HasPrefix(name, EventNamePrefix) {
		return name
	}
	return EventNamePrefix + name
}
