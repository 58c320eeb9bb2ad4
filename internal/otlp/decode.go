package otlp

import (
	"fmt"
	"mime"

	"go.opentelemetry.io/collector/pdata/plog/plogotlp"
	"go.opentelemetry.io/collector/pdata/pmetric/pmetricotlp"
	collectorlogsv1 "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	collectormetricsv1 "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Content types accepted on the OTLP/HTTP endpoints.
const (
	ContentTypeProtobuf = "application/x-protobuf"
	ContentTypeJSON     = "application/json"
)

// Encoding is the wire encoding of an OTLP/HTTP body.
type Encoding string

const (
	// EncodingProtobuf is binary protobuf.
	EncodingProtobuf Encoding = "protobuf"
	// EncodingJSON is the OTLP/JSON mapping.
	EncodingJSON Encoding = "json"
)

// String returns the string representation of the Encoding.
func (e Encoding) String() string {
	return string(e)
}

// ContentType returns the media type used for responses in this encoding.
func (e Encoding) ContentType() string {
	if e == EncodingJSON {
		return ContentTypeJSON
	}
	return ContentTypeProtobuf
}

// EncodingFor maps a Content-Type header to an Encoding.
func EncodingFor(contentType string) (Encoding, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch mediaType {
	case ContentTypeProtobuf:
		return EncodingProtobuf, true
	case ContentTypeJSON:
		return EncodingJSON, true
	default:
		return "", false
	}
}

// DecodeMetricsRequest decodes an ExportMetricsServiceRequest body.
//
// OTLP/JSON encodes trace and span ids as hex rather than base64, so JSON
// bodies go through the collector pdata codec and are re-read as protobuf.
func DecodeMetricsRequest(body []byte, enc Encoding) (*collectormetricsv1.ExportMetricsServiceRequest, error) {
	if enc == EncodingJSON {
		jr := pmetricotlp.NewExportRequest()
		if err := jr.UnmarshalJSON(body); err != nil {
			return nil, fmt.Errorf("decode metrics json: %w", err)
		}
		var err error
		if body, err = jr.MarshalProto(); err != nil {
			return nil, fmt.Errorf("re-encode metrics: %w", err)
		}
	}

	req := &collectormetricsv1.ExportMetricsServiceRequest{}
	if err := proto.Unmarshal(body, req); err != nil {
		return nil, fmt.Errorf("decode metrics protobuf: %w", err)
	}
	return req, nil
}

// DecodeLogsRequest decodes an ExportLogsServiceRequest body.
func DecodeLogsRequest(body []byte, enc Encoding) (*collectorlogsv1.ExportLogsServiceRequest, error) {
	if enc == EncodingJSON {
		jr := plogotlp.NewExportRequest()
		if err := jr.UnmarshalJSON(body); err != nil {
			return nil, fmt.Errorf("decode logs json: %w", err)
		}
		var err error
		if body, err = jr.MarshalProto(); err != nil {
			return nil, fmt.Errorf("re-encode logs: %w", err)
		}
	}

	req := &collectorlogsv1.ExportLogsServiceRequest{}
	if err := proto.Unmarshal(body, req); err != nil {
		return nil, fmt.Errorf("decode logs protobuf: %w", err)
	}
	return req, nil
}

// EncodeResponse marshals an export response in the request's encoding.
func EncodeResponse(msg proto.Message, enc Encoding) ([]byte, error) {
	if enc == EncodingJSON {
		return protojson.Marshal(msg)
	}
	return proto.Marshal(msg)
}
