package types

import (
	"net/http"

	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
)

// Unit is the empty value carried by results that only signal completion.
type Unit struct{}

// Result is the uniform envelope returned by composition operations.
type Result[T any] struct {
	IsSuccess  bool    `json:"isSuccess"`
	StatusCode int     `json:"statusCode"`
	Value      *T      `json:"value"`
	Message    *string `json:"message"`
}

// Success builds a successful result. An empty message is encoded as null.
func Success[T any](status int, value T, message string) Result[T] {
	return Result[T]{
		IsSuccess:  true,
		StatusCode: status,
		Value:      &value,
		Message:    optionalMessage(message),
	}
}

// Failure builds a failed result with no value.
func Failure[T any](status int, message string) Result[T] {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Result[T]{
		StatusCode: status,
		Message:    optionalMessage(message),
	}
}

// FailureFromError converts a typed error into a failed result, using the
// error code's HTTP status. Untyped errors become internal errors.
func FailureFromError[T any](err error) Result[T] {
	return Failure[T](pkgerrors.StatusOf(err), pkgerrors.Describe(err))
}

// Retype carries a failure across value types.
func Retype[T, U any](r Result[U]) Result[T] {
	return Result[T]{
		IsSuccess:  r.IsSuccess,
		StatusCode: r.StatusCode,
		Message:    r.Message,
	}
}

// MessageText returns the message or an empty string.
func (r Result[T]) MessageText() string {
	if r.Message == nil {
		return ""
	}
	return *r.Message
}

func optionalMessage(message string) *string {
	if message == "" {
		return nil
	}
	return &message
}
