package session

import (
	"errors"
	"fmt"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/remote"
)

// Session errors. All of them are validation errors.
var (
	ErrCodeRequired         = fmt.Errorf("%w: access code is required", models.ErrValidation)
	ErrNotAuthenticated     = fmt.Errorf("%w: enter an access code first", models.ErrValidation)
	ErrControlsDisabled     = fmt.Errorf("%w: controls are disabled until markers are loaded", models.ErrValidation)
	ErrConfirmationRequired = fmt.Errorf("%w: deletion must be confirmed", models.ErrValidation)
)

// ErrStopped is returned by Submit once the controller loop has exited.
var ErrStopped = errors.New("session controller stopped")

// AlertKind classifies a user-visible failure.
type AlertKind string

const (
	AlertValidation AlertKind = "validation"
	AlertNetwork    AlertKind = "network"
	AlertInternal   AlertKind = "internal"
)

// Alert is the blocking message shown to the user after a failed command.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
}

// AlertFor classifies err. It returns nil for a nil error.
func AlertFor(err error) *Alert {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrValidation):
		return &Alert{Kind: AlertValidation, Message: err.Error()}
	case errors.Is(err, remote.ErrNetwork):
		return &Alert{Kind: AlertNetwork, Message: "Could not reach the marker store, please try again: " + err.Error()}
	default:
		return &Alert{Kind: AlertInternal, Message: err.Error()}
	}
}
