package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"

	"lumo/internal/otlp"
	"lumo/internal/storage"
)

// readExport validates method and content type and reads the body of an
// OTLP/HTTP export. On failure it has already written the response.
func readExport(w http.ResponseWriter, r *http.Request, signal string) ([]byte, otlp.Encoding, bool) {
	log := zerolog.Ctx(r.Context())

	if !allowMethod(w, r, http.MethodPost) {
		return nil, "", false
	}

	enc, ok := otlp.EncodingFor(r.Header.Get("Content-Type"))
	if !ok {
		log.Warn().Str("signal", signal).Str("content_type", r.Header.Get("Content-Type")).Msg("unsupported Content-Type")
		w.WriteHeader(http.StatusUnsupportedMediaType)
		return nil, "", false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn().Str("signal", signal).Int64("limit", tooLarge.Limit).Msg("request body too large")
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return nil, "", false
		}
		log.Warn().Err(err).Str("signal", signal).Msg("failed to read body")
		w.WriteHeader(http.StatusBadRequest)
		return nil, "", false
	}

	return body, enc, true
}

// storeFailed maps an insert error to a retryable 503.
func storeFailed(w http.ResponseWriter, r *http.Request, signal string, err error) {
	log := zerolog.Ctx(r.Context())
	if storage.IsInfrastructure(err) {
		log.Error().Err(err).Str("signal", signal).Msg("storage unavailable")
	} else {
		log.Error().Err(err).Str("signal", signal).Msg("unexpected storage error")
	}
	w.WriteHeader(http.StatusServiceUnavailable)
}

// writeExportResponse encodes resp in the request's encoding.
func writeExportResponse(w http.ResponseWriter, r *http.Request, resp proto.Message, enc otlp.Encoding) {
	b, err := otlp.EncodeResponse(resp, enc)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("BUG: failed to marshal export response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", enc.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
