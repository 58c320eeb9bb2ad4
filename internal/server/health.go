package server

import (
	"context"
	"net/http"
	"time"
)

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
}

// handleHealth reports liveness and database connectivity. An unreachable
// database answers 503 so supervisors can restart the daemon.
func handleHealth(store Store, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}

		resp := HealthResponse{
			Status:  "healthy",
			Version: version,
			Message: "lumo is running",
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		if err := store.Health(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "disconnected"
			resp.Message = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "connected"
		}

		writeJSON(w, status, resp)
	}
}
