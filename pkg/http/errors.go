package http

import (
	"fmt"
	"net/http"
)

// AppError is an error that carries its HTTP status and a stable code for
// the envelope's details.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
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

func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{Code: code, Field: field, Message: message, Status: status}
}

// WithError wraps an underlying error. It is kept out of the response body.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// Expose reports whether Message may be shown to clients. Server errors
// get the generic text instead.
func (e *AppError) Expose() bool {
	return e.Status > 0 && e.Status < http.StatusInternalServerError
}

// UnprocessableError is a well-formed request that cannot be served against
// the current rate table, e.g. a purity the metal is not quoted in.
func UnprocessableError(field, message string) *AppError {
	return NewAppError("ERR_UNPROCESSABLE", field, message, http.StatusUnprocessableEntity)
}

