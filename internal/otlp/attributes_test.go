package otlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	resourcev1 "go.opentelemetry.io/proto/otlp/resource/v1"
)

func strKV(key, value string) *commonv1.KeyValue {
	return &commonv1.KeyValue{Key: key, Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_StringValue{StringValue: value}}}
}

func intKV(key string, value int64) *commonv1.KeyValue {
	return &commonv1.KeyValue{Key: key, Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_IntValue{IntValue: value}}}
}

func doubleKV(key string, value float64) *commonv1.KeyValue {
	return &commonv1.KeyValue{Key: key, Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_DoubleValue{DoubleValue: value}}}
}

func boolKV(key string, value bool) *commonv1.KeyValue {
	return &commonv1.KeyValue{Key: key, Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_BoolValue{BoolValue: value}}}
}

func TestExtractAttributes(t *testing.T) {
	kvs := []*commonv1.KeyValue{
		strKV("session.id", "s1"),
		intKV("input_tokens", 1200),
		doubleKV("cost_usd", 0.0125),
		boolKV("success", true),
		{Key: "tags", Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_ArrayValue{
			ArrayValue: &commonv1.ArrayValue{Values: []*commonv1.AnyValue{{Value: &commonv1.AnyValue_StringValue{StringValue: "a"}}}},
		}}},
		{Key: "nested", Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_KvlistValue{KvlistValue: &commonv1.KeyValueList{}}}},
		{Key: "raw", Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_BytesValue{BytesValue: []byte{0x01}}}},
		{Key: "empty"},
		nil,
	}

	attrs := ExtractAttributes(kvs)

	assert.Equal(t, map[string]string{
		"session.id":   "s1",
		"input_tokens": "1200",
		"cost_usd":     "0.0125",
		"success":      "true",
	}, attrs)
}

func TestExtractAttributesLastWriteWins(t *testing.T) {
	attrs := ExtractAttributes([]*commonv1.KeyValue{
		strKV("model", "first"),
		strKV("model", "second"),
	})
	assert.Equal(t, "second", attrs["model"])
}

func TestExtractAttributesUnsupportedDoesNotOverwrite(t *testing.T) {
	attrs := ExtractAttributes([]*commonv1.KeyValue{
		strKV("model", "kept"),
		{Key: "model", Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_BytesValue{BytesValue: []byte("x")}}},
	})
	assert.Equal(t, "kept", attrs["model"])
}

func TestExtractAttributesEmpty(t *testing.T) {
	attrs := ExtractAttributes(nil)
	require.NotNil(t, attrs)
	assert.Empty(t, attrs)
}

func TestScalarStringFormatting(t *testing.T) {
	tests := []struct {
		name  string
		value *commonv1.AnyValue
		want  string
	}{
		{"negative int", &commonv1.AnyValue{Value: &commonv1.AnyValue_IntValue{IntValue: -7}}, "-7"},
		{"whole double", &commonv1.AnyValue{Value: &commonv1.AnyValue_DoubleValue{DoubleValue: 42}}, "42"},
		{"fractional double", &commonv1.AnyValue{Value: &commonv1.AnyValue_DoubleValue{DoubleValue: 1.5}}, "1.5"},
		{"false", &commonv1.AnyValue{Value: &commonv1.AnyValue_BoolValue{BoolValue: false}}, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scalarString(tt.value)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResourceJSON(t *testing.T) {
	t.Run("nil resource", func(t *testing.T) {
		assert.Nil(t, resourceJSON(nil))
	})

	t.Run("no attributes", func(t *testing.T) {
		assert.Nil(t, resourceJSON(&resourcev1.Resource{}))
	})

	t.Run("only unsupported attributes", func(t *testing.T) {
		res := &resourcev1.Resource{Attributes: []*commonv1.KeyValue{
			{Key: "raw", Value: &commonv1.AnyValue{Value: &commonv1.AnyValue_BytesValue{BytesValue: []byte("x")}}},
		}}
		assert.Nil(t, resourceJSON(res))
	})

	t.Run("attributes", func(t *testing.T) {
		res := &resourcev1.Resource{Attributes: []*commonv1.KeyValue{
			strKV("service.name", "claude-code"),
			strKV("service.version", "1.0.0"),
		}}
		got := resourceJSON(res)
		require.NotNil(t, got)
		assert.JSONEq(t, `{"service.name":"claude-code","service.version":"1.0.0"}`, *got)
	})
}
