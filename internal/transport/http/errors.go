package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"inkwell/backend/internal/service/availability"
	"inkwell/backend/internal/service/booking"
	"inkwell/backend/internal/store"
)

// errorBody is the uniform error payload. Conflict responses expose only the
// occupied time range, never the other party's identity or notes.
type errorBody struct {
	Error         string     `json:"error"`
	Message       string     `json:"message"`
	ConflictStart *time.Time `json:"conflict_start,omitempty"`
	ConflictEnd   *time.Time `json:"conflict_end,omitempty"`
	CurrentStatus string     `json:"current_status,omitempty"`
	Allowed       []string   `json:"allowed_transitions,omitempty"`
}

// writeServiceError maps domain errors to HTTP statuses. Anything not in the
// taxonomy is an infrastructure error: logged and surfaced as a 500 that the
// client layer may retry with backoff.
func writeServiceError(c echo.Context, log *slog.Logger, err error) error {
	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "validation", Message: vErr.Error()})
	}
	var avErr *availability.ValidationError
	if errors.As(err, &avErr) {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "validation", Message: avErr.Error()})
	}
	var pErr *booking.PolicyError
	if errors.As(err, &pErr) {
		return c.JSON(http.StatusUnprocessableEntity, errorBody{Error: "policy", Message: pErr.Error()})
	}
	var cErr *booking.ConflictError
	if errors.As(err, &cErr) {
		return c.JSON(http.StatusConflict, errorBody{
			Error:         "conflict",
			Message:       "The requested time is no longer available. Pick a different slot.",
			ConflictStart: &cErr.Start,
			ConflictEnd:   &cErr.End,
		})
	}
	var tErr *booking.InvalidTransitionError
	if errors.As(err, &tErr) {
		allowed := make([]string, 0, 3)
		for _, s := range tErr.Allowed() {
			allowed = append(allowed, string(s))
		}
		return c.JSON(http.StatusConflict, errorBody{
			Error:         "invalid_transition",
			Message:       tErr.Error(),
			CurrentStatus: string(tErr.Current),
			Allowed:       allowed,
		})
	}
	if errors.Is(err, store.ErrConflict) {
		return c.JSON(http.StatusConflict, errorBody{
			Error:   "conflict",
			Message: "The requested time is no longer available. Pick a different slot.",
		})
	}
	if errors.Is(err, store.ErrIdempotencyConflict) {
		return c.JSON(http.StatusConflict, errorBody{
			Error:   "idempotency_conflict",
			Message: "This request key was already used for a different appointment.",
		})
	}
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Message: "resource not found"})
	}

	log.Error("request failed", slog.Any("err", err), slog.String("path", c.Path()))
	return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal error"})
}
