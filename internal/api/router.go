// Package api exposes the session to the browser as a small JSON API.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/waypoint/internal/dispatcher"
	"github.com/UnknownOlympus/waypoint/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader carries the ID assigned to every API request.
const RequestIDHeader = "X-Request-ID"

// Session is the part of the session controller used by the API.
type Session interface {
	Submit(ctx context.Context, cmd dispatcher.Command) (session.Result, error)
	View(ctx context.Context) (session.View, error)
}

// Handler serves the browser API.
type Handler struct {
	session Session
	log     *slog.Logger
}

// NewRouter wires the API routes.
func NewRouter(s Session, log *slog.Logger) *mux.Router {
	h := &Handler{session: s, log: log}

	r := mux.NewRouter()
	r.Use(h.requestID)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/view", h.GetView).Methods(http.MethodGet)
	api.HandleFunc("/commands", h.PostCommand).Methods(http.MethodPost)

	return r
}

func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		h.log.DebugContext(r.Context(), "API request", "method", r.Method, "path", r.URL.Path, "request_id", id)
		next.ServeHTTP(w, r)
	})
}
