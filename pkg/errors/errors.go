// Package errors defines the typed API error used across services and the
// HTTP envelope they map to.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code classifies an error for clients and picks its HTTP status.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
)

// Metadata is how a Code is presented over HTTP.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:   {http.StatusBadRequest, false, "validation failed", true},
	CodeUnauthorized: {http.StatusUnauthorized, false, "authentication required", false},
	CodeForbidden:    {http.StatusForbidden, false, "access denied", false},
	CodeNotFound:     {http.StatusNotFound, false, "resource not found", true},
	CodeConflict:     {http.StatusConflict, false, "resource already exists", false},
	CodeRateLimit:    {http.StatusTooManyRequests, false, "rate limit exceeded", false},
	CodeInternal:     {http.StatusInternalServerError, false, "internal server error", false},
	CodeDependency:   {http.StatusServiceUnavailable, true, "dependency unavailable", false},
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches cause; a nil cause behaves like New.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// NotFound is shorthand for the most common lookup failure.
func NotFound(resource string) *Error {
	return New(CodeNotFound, resource+" not found")
}

// InvalidField is a validation error whose details point at a single field.
func InvalidField(field, message, reason string) *Error {
	return New(CodeValidation, message).WithDetails(map[string]string{field: reason})
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails sets the client-facing details in place and returns e.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

// Error omits the cause; use Dump to log the full chain.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether the outermost *Error in err's chain carries code.
func IsCode(err error, code Code) bool {
	return As(err).codeOrEmpty() == code
}

func (e *Error) codeOrEmpty() Code {
	if e == nil {
		return ""
	}
	return e.code
}
