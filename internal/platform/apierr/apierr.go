// Package apierr is the error model shared by every API package: a small set
// of codes, each mapped to one HTTP status, plus the JSON error body.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation       Code = "VALIDATION"
	CodeConflict         Code = "CONFLICT"
	CodeInvalidState     Code = "INVALID_STATE"
	CodeInvalidReference Code = "INVALID_REFERENCE"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInternal         Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Invalid(msg string) *APIError      { return &APIError{Code: CodeValidation, Message: msg} }
func Conflict(msg string) *APIError     { return &APIError{Code: CodeConflict, Message: msg} }
func InvalidState(msg string) *APIError { return &APIError{Code: CodeInvalidState, Message: msg} }
func InvalidReference(msg string) *APIError {
	return &APIError{Code: CodeInvalidReference, Message: msg}
}
func Unauthenticated(msg string) *APIError { return &APIError{Code: CodeUnauthenticated, Message: msg} }
func Forbidden(msg string) *APIError       { return &APIError{Code: CodeUnauthorized, Message: msg} }
func NotFound(msg string) *APIError        { return &APIError{Code: CodeNotFound, Message: msg} }
func Internal(msg string) *APIError        { return &APIError{Code: CodeInternal, Message: msg} }

// Invalidf formats a validation message.
func Invalidf(format string, args ...any) *APIError {
	return Invalid(fmt.Sprintf(format, args...))
}

// As extracts the *APIError carried by err, if any.
func As(err error) (*APIError, bool) {
	var api *APIError
	if errors.As(err, &api) {
		return api, true
	}
	return nil, false
}

// HasCode reports whether err carries an *APIError with the given code.
func HasCode(err error, code Code) bool {
	api, ok := As(err)
	return ok && api.Code == code
}

func HTTPStatus(err error) int {
	api, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch api.Code {
	case CodeValidation, CodeConflict, CodeInvalidState, CodeInvalidReference:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON error envelope.
type Body struct {
	Error string `json:"error"`
	Code  Code   `json:"code"`
}

const genericMessage = "Error interno del servidor"

// BodyFor builds the envelope for err. Unexpected errors never leak their text.
func BodyFor(err error) Body {
	api, ok := As(err)
	if !ok || api.Code == CodeInternal {
		return Body{Error: genericMessage, Code: CodeInternal}
	}
	return Body{Error: api.Message, Code: api.Code}
}
