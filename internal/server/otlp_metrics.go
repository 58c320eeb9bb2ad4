package server

import (
	"net/http"

	"github.com/rs/zerolog"
	collectormetricsv1 "go.opentelemetry.io/proto/otlp/collector/metrics/v1"

	"lumo/internal/otlp"
)

// handleMetrics handles POST /v1/metrics.
func handleMetrics(store Store, m *serverMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zerolog.Ctx(r.Context())

		body, enc, ok := readExport(w, r, "metrics")
		if !ok {
			return
		}

		req, err := otlp.DecodeMetricsRequest(body, enc)
		if err != nil {
			log.Warn().Err(err).Str("encoding", enc.String()).Msg("metrics: bad request")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		records := otlp.ParseMetrics(req)

		result, err := store.InsertMetrics(r.Context(), records)
		if err != nil {
			storeFailed(w, r, "metrics", err)
			return
		}
		m.recordIngest("metrics", result.Accepted, result.Rejected)

		log.Info().
			Int("accepted", result.Accepted).
			Int("rejected", result.Rejected).
			Msg("metrics: stored data points")

		resp := &collectormetricsv1.ExportMetricsServiceResponse{}
		if result.HasRejections() {
			resp.PartialSuccess = &collectormetricsv1.ExportMetricsPartialSuccess{
				RejectedDataPoints: int64(result.Rejected),
				ErrorMessage:       result.ErrorMessage(),
			}
		}

		writeExportResponse(w, r, resp, enc)
	}
}
