package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification or a double issue of a one-time document.
var ErrConflict = errors.New("conflict")

// ErrIllegalTransition indicates that an event is not defined for the order's current state.
var ErrIllegalTransition = errors.New("illegal transition")

// ErrPreconditionNotMet indicates that a transition exists but its guard failed.
var ErrPreconditionNotMet = errors.New("precondition not met")

// ErrAlreadyArchived is returned when archiving an order that is already archived.
var ErrAlreadyArchived = errors.New("order already archived")

// ErrTokenInvalid is returned when a design approval token does not match any pending order.
var ErrTokenInvalid = errors.New("invalid design approval token")

// ErrDatabase wraps failures of the underlying store.
var ErrDatabase = errors.New("database error")

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// Refinements of the kinds above. errors.Is matches both the refinement and its kind.
var (
	ErrOrderNotFound         = fmt.Errorf("%w: order", ErrNotFound)
	ErrPostingNotFound       = fmt.Errorf("%w: posting", ErrNotFound)
	ErrSequenceNotConfigured = fmt.Errorf("%w: document number sequence not configured", ErrNotFound)
	ErrUnknownAccount        = fmt.Errorf("%w: unknown account", ErrNotFound)
	ErrInvalidPosting        = fmt.Errorf("%w: invalid posting", ErrValidation)
)

// AppError carries an HTTP-ish status code next to a message and an optional cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an AppError against the kind implied by its code.
func (e *AppError) Is(target error) bool {
	switch e.Code {
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusBadRequest:
		return target == ErrValidation
	case http.StatusConflict:
		return target == ErrConflict
	case http.StatusInternalServerError:
		return target == ErrDatabase
	}
	return false
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

// TransitionError reports an event that the state machine does not define for a state.
type TransitionError struct {
	From  string
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition: event %q is not allowed in state %q", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// PreconditionError reports a failed transition guard with a readable reason.
type PreconditionError struct {
	Event  string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition not met for %s: %s", e.Event, e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrPreconditionNotMet }

// NewPreconditionError is a convenience constructor for PreconditionError.
func NewPreconditionError(event, reason string) error {
	return &PreconditionError{Event: event, Reason: reason}
}
