// Package apperr defines the business error taxonomy surfaced by the API.
package apperr

import (
	"errors"
	"net/http"
)

// Error carries a stable code plus a caller-facing message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMessage keeps the code but swaps the message, so errors.Is
// against the sentinel still matches by code.
func (e *Error) WithMessage(message string) *Error {
	return &Error{Code: e.Code, Message: message}
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrValidation               = New("VALIDATION", "invalid input")
	ErrUnauthorized             = New("UNAUTHORIZED", "authentication required")
	ErrForbidden                = New("FORBIDDEN", "insufficient role")
	ErrNotFound                 = New("NOT_FOUND", "resource not found")
	ErrConfirmationFailed       = New("CONFIRMATION_FAILED", "confirmation failed")
	ErrQRCodeMismatch           = New("QRCODE_MISMATCH", "qr code belongs to a different user")
	ErrInsufficientAvailability = New("INSUFFICIENT_AVAILABILITY", "insufficient tool availability")
	ErrResourceInUse            = New("RESOURCE_IN_USE", "resource is referenced and cannot be deleted")
	ErrAlreadyExists            = New("ALREADY_EXISTS", "resource already exists")
)

// HTTPStatus maps the taxonomy onto response codes; anything
// unrecognized is a 500 so internals never leak.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case ErrUnauthorized.Code:
		return http.StatusUnauthorized
	case ErrForbidden.Code:
		return http.StatusForbidden
	case ErrNotFound.Code:
		return http.StatusNotFound
	case ErrValidation.Code, ErrConfirmationFailed.Code, ErrQRCodeMismatch.Code,
		ErrInsufficientAvailability.Code, ErrResourceInUse.Code, ErrAlreadyExists.Code:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
