package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"lumo/internal/storage"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// api serves the read endpoints used by the desktop app.
type api struct {
	store Store
}

func newAPI(store Store) *api {
	return &api{store: store}
}

// intParam reads an optional integer query parameter. ok is false when the
// value is present but not a non-negative integer.
func intParam(r *http.Request, name string, def int64) (int64, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, true
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// page reads limit and offset, clamping limit to maxPageSize.
func page(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	l, ok := intParam(r, "limit", defaultPageSize)
	if !ok || l == 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, 0, false
	}
	o, ok := intParam(r, "offset", 0)
	if !ok {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return 0, 0, false
	}
	return int(min(l, maxPageSize)), int(o), true
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("api query failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

// listSessions serves GET /api/sessions. With start and end (unix ms) it
// returns the sessions overlapping that range instead of a page.
func (a *api) listSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}

		q := r.URL.Query()
		if q.Has("start") || q.Has("end") {
			start, okStart := intParam(r, "start", 0)
			end, okEnd := intParam(r, "end", 0)
			if !okStart || !okEnd || !q.Has("start") || !q.Has("end") || end < start {
				writeError(w, http.StatusBadRequest, "start and end must be unix milliseconds with start <= end")
				return
			}
			sessions, err := a.store.FindSessionsByTimeRange(r.Context(), start, end)
			if err != nil {
				internalError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"sessions": nonNil(sessions), "total": len(sessions)})
			return
		}

		limit, offset, ok := page(w, r)
		if !ok {
			return
		}
		sessions, err := a.store.FindSessions(r.Context(), limit, offset)
		if err != nil {
			internalError(w, r, err)
			return
		}
		total, err := a.store.CountSessions(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"sessions": nonNil(sessions),
			"total":    total,
			"limit":    limit,
			"offset":   offset,
		})
	}
}

func (a *api) sessionsSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		sum, err := a.store.SessionsSummary(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

func (a *api) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		sess, err := a.store.FindSession(r.Context(), r.PathValue("id"))
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func (a *api) sessionEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		limit, ok := intParam(r, "limit", 0)
		if !ok {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		events, err := a.store.EventsBySession(r.Context(), r.PathValue("id"), int(limit))
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": nonNil(events)})
	}
}

func (a *api) listNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		limit, offset, ok := page(w, r)
		if !ok {
			return
		}
		notifications, err := a.store.FindRecentNotifications(r.Context(), limit, offset)
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notifications": nonNil(notifications)})
	}
}

// claimPending serves POST /api/notifications/pending: it returns every
// notification not yet shown on the desktop and marks them shown.
func (a *api) claimPending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}
		pending, err := a.store.FindUnnotified(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		ids := make([]int64, len(pending))
		for i, n := range pending {
			ids[i] = n.ID
		}
		if err := a.store.MarkNotified(r.Context(), ids); err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notifications": nonNil(pending)})
	}
}

func (a *api) unreadCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		n, err := a.store.UnreadCount(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"unread": n})
	}
}

func (a *api) markRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid notification id")
			return
		}
		found, err := a.store.MarkRead(r.Context(), id)
		if err != nil {
			internalError(w, r, err)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *api) markAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}
		n, err := a.store.MarkAllRead(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
	}
}

func (a *api) tokensByModel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet) {
			return
		}
		usage, err := a.store.TokenUsageByModel(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"usage": nonNil(usage)})
	}
}

// nonNil makes empty results encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
