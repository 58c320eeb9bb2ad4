package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"lumo/internal/telemetry"
)

// unknownHookEvent names notifications whose hook sent no event name.
const unknownHookEvent = "Unknown"

// notifyRequest is the JSON a Claude Code hook pipes to /notify. Hooks send
// the event as hook_event_name; hook_event is accepted too.
type notifyRequest struct {
	SessionID        string  `json:"session_id"`
	HookEvent        *string `json:"hook_event"`
	HookEventName    *string `json:"hook_event_name"`
	Title            *string `json:"title"`
	Message          *string `json:"message"`
	NotificationType *string `json:"notification_type"`
	CWD              *string `json:"cwd"`
	TranscriptPath   *string `json:"transcript_path"`
}

func (req notifyRequest) toNotification() telemetry.NewNotification {
	hookEvent := unknownHookEvent
	switch {
	case req.HookEvent != nil:
		hookEvent = *req.HookEvent
	case req.HookEventName != nil:
		hookEvent = *req.HookEventName
	}

	title := telemetry.DefaultTitle(hookEvent)
	if req.Title != nil {
		title = *req.Title
	}
	message := telemetry.DefaultMessage(hookEvent)
	if req.Message != nil {
		message = *req.Message
	}

	return telemetry.NewNotification{
		SessionID:        req.SessionID,
		HookEvent:        hookEvent,
		NotificationType: req.NotificationType,
		Title:            title,
		Message:          message,
		CWD:              req.CWD,
		TranscriptPath:   req.TranscriptPath,
	}
}

// handleNotify handles POST /notify from Claude Code hooks.
func handleNotify(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}

		log := zerolog.Ctx(r.Context())

		var req notifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "invalid JSON: " + err.Error()})
			return
		}
		if req.SessionID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "session_id is required"})
			return
		}

		n := req.toNotification()
		id, err := store.InsertNotification(r.Context(), n)
		if err != nil {
			log.Error().Err(err).Msg("failed to store notification")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "failed to store notification: " + err.Error()})
			return
		}

		log.Info().Int64("id", id).Str("hook_event", n.HookEvent).Msg("notification stored")
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "id": id})
	}
}
