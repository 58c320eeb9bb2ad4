package otlp

import (
	"strconv"

	"lumo/internal/telemetry"
)

// lookup returns a copy of attrs[key], or nil when the key is missing.
func lookup(attrs map[string]string, key string) *string {
	v, ok := attrs[key]
	if !ok {
		return nil
	}
	return &v
}

// parseAttr parses attrs[key] with parse. A missing key or a parse error
// yields nil; callers never see the error.
func parseAttr[T any](attrs map[string]string, key string, parse func(string) (T, error)) *T {
	s, ok := attrs[key]
	if !ok {
		return nil
	}
	v, err := parse(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

func parseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// parseSuccess is an exact, case-sensitive match: "True" and "1" are false.
func parseSuccess(s string) (bool, error) {
	return s == "true", nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sessionID(attrs map[string]string) string {
	if id, ok := attrs[AttrSessionID]; ok {
		return id
	}
	return telemetry.UnknownSessionID
}

// nanosToMillis truncates an OTLP nanosecond timestamp to milliseconds.
func nanosToMillis(nanos uint64) int64 {
	return int64(nanos / 1_000_000)
}
