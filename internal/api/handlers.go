package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/UnknownOlympus/waypoint/internal/dispatcher"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/session"
)

const maxBodyBytes = 64 << 10

// ErrBadCommand is returned for command bodies that cannot be turned into a command.
var ErrBadCommand = errors.New("malformed command")

// commandRequest is the union of every command body the browser posts.
type commandRequest struct {
	Type      string           `json:"type"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	LatLng    *models.Position `json:"latlng"`
	Confirmed bool             `json:"confirmed"`
	Query     string           `json:"query"`
	Order     string           `json:"order"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetView returns the current session view.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.session.View(r.Context())
	if err != nil {
		h.writeJSON(w, r, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	h.writeJSON(w, r, http.StatusOK, view)
}

// PostCommand decodes a command, runs it and returns the resulting view and alert.
func (h *Handler) PostCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("%s: %v", ErrBadCommand, err)})
		return
	}

	cmd, err := req.command()
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := h.session.Submit(r.Context(), cmd)
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to submit command", "command", cmd.CommandName(), "error", err)
		h.writeJSON(w, r, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	h.writeJSON(w, r, statusFor(res.Alert), res)
}

func (req commandRequest) command() (dispatcher.Command, error) {
	switch req.Type {
	case session.CommandAuthenticate:
		return session.Authenticate{Code: req.Code}, nil
	case session.CommandAddMarker:
		if req.LatLng == nil {
			return nil, fmt.Errorf("%w: addMarker needs latlng", ErrBadCommand)
		}
		return session.AddMarker{Name: req.Name, Position: *req.LatLng}, nil
	case session.CommandDeleteMarker:
		return session.DeleteMarker{Name: req.Name, Confirmed: req.Confirmed}, nil
	case session.CommandSearch:
		return session.Search{Query: req.Query}, nil
	case session.CommandSort:
		return session.Sort{Order: models.SortOrder(req.Order)}, nil
	case session.CommandSelectRow:
		return session.SelectRow{Name: req.Name}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrBadCommand)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrBadCommand, req.Type)
	}
}

func statusFor(alert *session.Alert) int {
	if alert == nil {
		return http.StatusOK
	}

	switch alert.Kind {
	case session.AlertValidation:
		return http.StatusUnprocessableEntity
	case session.AlertNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}
