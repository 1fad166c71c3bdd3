package handlers

import (
	"errors"
	"net/http"

	"github.com/msidibe/gpr/gate"
	"github.com/msidibe/gpr/httpx"
	"github.com/msidibe/gpr/internal/services"
)

// writeServiceError maps every core error kind to a distinct, stable wire
// signal so the front end can render role-aware messaging.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
	case errors.Is(err, gate.ErrUnauthenticated):
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, gate.ErrUnauthorized), errors.Is(err, gate.ErrNoPolicyDefined):
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	default:
		if ve, ok := services.AsValidation(err); ok {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
