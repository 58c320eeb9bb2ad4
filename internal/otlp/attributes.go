// Package otlp flattens OTLP metric and log export requests into the rows
// lumo stores. Normalization never fails: missing or malformed values fall
// back to documented defaults or are left out.
package otlp

import (
	"encoding/json"
	"strconv"

	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	resourcev1 "go.opentelemetry.io/proto/otlp/resource/v1"
)

// Attribute keys read from Claude Code telemetry. They must match the
// exporter byte for byte.
const (
	AttrSessionID           = "session.id"
	AttrEventName           = "event.name"
	AttrEventSequence       = "event.sequence"
	AttrAccountUUID         = "user.account_uuid"
	AttrOrganizationID      = "organization.id"
	AttrTerminalType        = "terminal.type"
	AttrAppVersion          = "app.version"
	AttrUserID              = "user.id"
	AttrUserEmail           = "user.email"
	AttrType                = "type"
	AttrModel               = "model"
	AttrTool                = "tool"
	AttrDecision            = "decision"
	AttrLanguage            = "language"
	AttrDurationMs          = "duration_ms"
	AttrSuccess             = "success"
	AttrError               = "error"
	AttrCostUSD             = "cost_usd"
	AttrInputTokens         = "input_tokens"
	AttrOutputTokens        = "output_tokens"
	AttrCacheReadTokens     = "cache_read_tokens"
	AttrCacheCreationTokens = "cache_creation_tokens"
	AttrStatusCode          = "status_code"
	AttrAttempt             = "attempt"
	AttrToolName            = "tool_name"
	AttrSource              = "source"
	AttrToolParameters      = "tool_parameters"
	AttrPromptLength        = "prompt_length"
	AttrPrompt              = "prompt"
	AttrToolResultSizeBytes = "tool_result_size_bytes"
)

// ExtractAttributes converts OTLP key/values to a plain string map.
// String, int, double and bool values are stringified; arrays, kvlists,
// bytes and empty values are skipped. A repeated key keeps its last value.
func ExtractAttributes(kvs []*commonv1.KeyValue) map[string]string {
	attrs := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		if kv == nil {
			continue
		}
		if s, ok := scalarString(kv.Value); ok {
			attrs[kv.Key] = s
		}
	}
	return attrs
}

// scalarString renders a scalar AnyValue. ok is false for every other variant.
func scalarString(v *commonv1.AnyValue) (string, bool) {
	if v == nil {
		return "", false
	}
	switch val := v.Value.(type) {
	case *commonv1.AnyValue_StringValue:
		return val.StringValue, true
	case *commonv1.AnyValue_IntValue:
		return strconv.FormatInt(val.IntValue, 10), true
	case *commonv1.AnyValue_DoubleValue:
		return strconv.FormatFloat(val.DoubleValue, 'f', -1, 64), true
	case *commonv1.AnyValue_BoolValue:
		return strconv.FormatBool(val.BoolValue), true
	default:
		return "", false
	}
}

// resourceJSON serializes the resource attributes once per resource group.
// It returns nil when there is no resource or nothing could be extracted.
func resourceJSON(res *resourcev1.Resource) *string {
	if res == nil {
		return nil
	}
	attrs := ExtractAttributes(res.GetAttributes())
	if len(attrs) == 0 {
		return nil
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
