package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	queryTimeout  = 5 * time.Second
	queryRowLimit = 1000
)

// QueryResponse is the JSON response of /query.
type QueryResponse struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Count   int              `json:"count"`
}

// handleQuery runs an ad-hoc read-only SELECT against the store.
func handleQuery(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}

		log := zerolog.Ctx(r.Context())
		query := strings.TrimSpace(r.FormValue("sql"))

		if query == "" {
			writeError(w, http.StatusBadRequest, "missing sql parameter")
			return
		}

		upper := strings.ToUpper(query)
		if !strings.HasPrefix(upper, "SELECT") {
			writeError(w, http.StatusBadRequest, "only SELECT queries allowed")
			return
		}

		if strings.Contains(query, ";") {
			writeError(w, http.StatusBadRequest, "multi-statement queries not allowed")
			return
		}

		if !strings.Contains(upper, "LIMIT") {
			query = fmt.Sprintf("%s LIMIT %d", query, queryRowLimit)
		}

		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()

		rows, err := store.DB().QueryContext(ctx, query)
		if err != nil {
			log.Warn().Err(err).Msg("query failed")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read columns")
			return
		}

		resp := QueryResponse{Columns: cols, Rows: []map[string]any{}}
		for rows.Next() {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				log.Error().Err(err).Msg("scan failed")
				writeError(w, http.StatusInternalServerError, "failed to scan row")
				return
			}

			row := make(map[string]any, len(cols))
			for i, col := range cols {
				// encoding/json would base64 a []byte.
				if b, ok := vals[i].([]byte); ok {
					row[col] = string(b)
					continue
				}
				row[col] = vals[i]
			}
			resp.Rows = append(resp.Rows, row)
		}

		if err := rows.Err(); err != nil {
			log.Error().Err(err).Msg("rows failed")
			writeError(w, http.StatusInternalServerError, "error reading results")
			return
		}

		resp.Count = len(resp.Rows)
		writeJSON(w, http.StatusOK, resp)
	}
}
