package otlp

import (
	"github.com/google/uuid"
	collectormetricsv1 "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	metricsv1 "go.opentelemetry.io/proto/otlp/metrics/v1"

	"lumo/internal/telemetry"
)

// ParseMetrics flattens every Sum, Gauge and Histogram data point in req,
// in request order. Other aggregation kinds are skipped.
func ParseMetrics(req *collectormetricsv1.ExportMetricsServiceRequest) []telemetry.Metric {
	var metrics []telemetry.Metric
	for _, rm := range req.GetResourceMetrics() {
		resource := resourceJSON(rm.GetResource())
		for _, sm := range rm.GetScopeMetrics() {
			for _, m := range sm.GetMetrics() {
				metrics = append(metrics, NormalizeMetric(m, resource)...)
			}
		}
	}
	return metrics
}

// NormalizeMetric returns one record per data point of m. resource is the
// serialized resource attribute map shared by the enclosing resource group.
func NormalizeMetric(m *metricsv1.Metric, resource *string) []telemetry.Metric {
	desc := metricDesc{
		name:        m.GetName(),
		unit:        nonEmpty(m.GetUnit()),
		description: nonEmpty(m.GetDescription()),
		resource:    resource,
	}

	var out []telemetry.Metric
	switch data := m.GetData().(type) {
	case *metricsv1.Metric_Sum:
		for _, dp := range data.Sum.GetDataPoints() {
			out = append(out, desc.record(dp.GetAttributes(), dp.GetTimeUnixNano(), numberValue(dp)))
		}
	case *metricsv1.Metric_Gauge:
		for _, dp := range data.Gauge.GetDataPoints() {
			out = append(out, desc.record(dp.GetAttributes(), dp.GetTimeUnixNano(), numberValue(dp)))
		}
	case *metricsv1.Metric_Histogram:
		// Only the sum is kept; buckets and counts are dropped.
		for _, dp := range data.Histogram.GetDataPoints() {
			out = append(out, desc.record(dp.GetAttributes(), dp.GetTimeUnixNano(), dp.GetSum()))
		}
	}
	return out
}

// metricDesc carries the per-metric fields shared by all of its points.
type metricDesc struct {
	name        string
	unit        *string
	description *string
	resource    *string
}

// record builds a metric row. Dimension fields come from the point's own
// attributes only; resource attributes stay in the resource blob.
func (d metricDesc) record(kvs []*commonv1.KeyValue, timeUnixNano uint64, value float64) telemetry.Metric {
	attrs := ExtractAttributes(kvs)
	return telemetry.Metric{
		ID:             uuid.New().String(),
		SessionID:      sessionID(attrs),
		Name:           d.name,
		Timestamp:      nanosToMillis(timeUnixNano),
		Value:          value,
		MetricType:     lookup(attrs, AttrType),
		Model:          lookup(attrs, AttrModel),
		Tool:           lookup(attrs, AttrTool),
		Decision:       lookup(attrs, AttrDecision),
		Language:       lookup(attrs, AttrLanguage),
		AccountUUID:    lookup(attrs, AttrAccountUUID),
		OrganizationID: lookup(attrs, AttrOrganizationID),
		TerminalType:   lookup(attrs, AttrTerminalType),
		AppVersion:     lookup(attrs, AttrAppVersion),
		UserID:         lookup(attrs, AttrUserID),
		UserEmail:      lookup(attrs, AttrUserEmail),
		Unit:           d.unit,
		Description:    d.description,
		Resource:       d.resource,
	}
}

func numberValue(dp *metricsv1.NumberDataPoint) float64 {
	switch v := dp.GetValue().(type) {
	case *metricsv1.NumberDataPoint_AsDouble:
		return v.AsDouble
	case *metricsv1.NumberDataPoint_AsInt:
		return float64(v.AsInt)
	default:
		return 0
	}
}
