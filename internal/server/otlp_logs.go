package server

import (
	"net/http"

	"github.com/rs/zerolog"
	collectorlogsv1 "go.opentelemetry.io/proto/otlp/collector/logs/v1"

	"lumo/internal/otlp"
)

// handleLogs handles POST /v1/logs. Claude Code sends its events
// (prompts, API calls, tool decisions) as log records.
func handleLogs(store Store, m *serverMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zerolog.Ctx(r.Context())

		body, enc, ok := readExport(w, r, "logs")
		if !ok {
			return
		}

		req, err := otlp.DecodeLogsRequest(body, enc)
		if err != nil {
			log.Warn().Err(err).Str("encoding", enc.String()).Msg("logs: bad request")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		events := otlp.ParseLogs(req)

		result, err := store.InsertEvents(r.Context(), events)
		if err != nil {
			storeFailed(w, r, "logs", err)
			return
		}
		m.recordIngest("logs", result.Accepted, result.Rejected)

		log.Info().
			Int("accepted", result.Accepted).
			Int("rejected", result.Rejected).
			Msg("logs: stored events")

		resp := &collectorlogsv1.ExportLogsServiceResponse{}
		if result.HasRejections() {
			resp.PartialSuccess = &collectorlogsv1.ExportLogsPartialSuccess{
				RejectedLogRecords: int64(result.Rejected),
				ErrorMessage:       result.ErrorMessage(),
			}
		}

		writeExportResponse(w, r, resp, enc)
	}
}
