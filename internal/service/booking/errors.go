package booking

import (
	"fmt"
	"time"

	"inkwell/backend/internal/domain"
)

// ValidationError marks malformed input (missing ids, inverted times).
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// PolicyError marks a well-formed request that violates booking policy:
// outside business hours, under the minimum duration, or a lifecycle action
// the current status no longer permits. Caller-correctable, never retried.
type PolicyError struct {
	msg string
}

func (e *PolicyError) Error() string {
	return e.msg
}

func policyError(format string, args ...any) error {
	return &PolicyError{msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports the occupied interval the request collided with.
// It deliberately carries only the time range: callers may be shown when the
// calendar is busy, never whose booking it is.
type ConflictError struct {
	Start time.Time
	End   time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested interval overlaps an existing booking from %s to %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// InvalidTransitionError reports a status change not reachable from the
// appointment's current status, including the transitions that are allowed
// so the caller can resynchronize.
type InvalidTransitionError struct {
	Current   domain.AppointmentStatus
	Requested domain.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %s to %s", e.Current, e.Requested)
}

func (e *InvalidTransitionError) Allowed() []domain.AppointmentStatus {
	return e.Current.AllowedTransitions()
}
