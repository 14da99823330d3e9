package errors

import (
	stdErrors "errors"
	"fmt"
	"maps"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeNotAcceptable Code = "NOT_ACCEPTABLE"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code surfaces over HTTP.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    {http.StatusBadRequest, false, "validation failed", true},
	CodeUnauthorized:  {http.StatusUnauthorized, false, "authentication required", false},
	CodeForbidden:     {http.StatusForbidden, false, "access denied", false},
	CodeNotFound:      {http.StatusNotFound, false, "resource not found", false},
	CodeNotAcceptable: {http.StatusNotAcceptable, false, "request not acceptable", true},
	CodeConflict:      {http.StatusConflict, false, "conflict detected", false},
	CodeStateConflict: {http.StatusUnprocessableEntity, false, "state transition disallowed", true},
	CodeIdempotency:   {http.StatusConflict, false, "idempotency key reused", true},
	CodeRateLimit:     {http.StatusTooManyRequests, false, "rate limit exceeded", false},
	CodeInternal:      {http.StatusInternalServerError, true, "internal server error", false},
	CodeDependency:    {http.StatusServiceUnavailable, true, "dependency unavailable", true},
}

// MetadataFor falls back to CodeInternal for codes it does not know.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is a coded error with an optional cause and per-field details.
type Error struct {
	code    Code
	message string
	fields  map[string]string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
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

// Details returns a copy of the per-field messages, or nil when none were set.
func (e *Error) Details() map[string]string {
	if e == nil || len(e.fields) == 0 {
		return nil
	}
	return maps.Clone(e.fields)
}

// WithDetails merges fields into the error and returns it.
func (e *Error) WithDetails(fields map[string]string) *Error {
	if e == nil || len(fields) == 0 {
		return e
	}
	if e.fields == nil {
		e.fields = make(map[string]string, len(fields))
	}
	maps.Copy(e.fields, fields)
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return string(e.code) + ": " + Describe(e)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the typed code carried by err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.code
	}
	return CodeInternal
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		if typed, ok := e.(*Error); ok && typed.code == code {
			return true
		}
	}
	return false
}

func StatusOf(err error) int {
	return MetadataFor(CodeOf(err)).HTTPStatus
}

// Describe renders err without code prefixes: each typed message followed by
// its cause.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	typed, ok := err.(*Error)
	if !ok {
		if typed = As(err); typed == nil {
			return err.Error()
		}
	}
	switch {
	case typed.cause == nil:
		return typed.message
	case typed.message == "":
		return Describe(typed.cause)
	default:
		return typed.message + ": " + Describe(typed.cause)
	}
}
