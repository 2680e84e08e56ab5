package result

import (
	"fmt"
	"net/http"
)

// Kind classifies an expected business failure.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindFailure      Kind = "failure"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
)

// Error is the structured error carried by a failed Result.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func NotFound(code, message string) *Error {
	return &Error{Code: code, Message: message, Kind: KindNotFound}
}

func Conflict(code, message string) *Error {
	return &Error{Code: code, Message: message, Kind: KindConflict}
}

func Failure(code, message string) *Error {
	return &Error{Code: code, Message: message, Kind: KindFailure}
}

func Unauthorized(code, message string) *Error {
	return &Error{Code: code, Message: message, Kind: KindUnauthorized}
}

func Forbidden(code, message string) *Error {
	return &Error{Code: code, Message: message, Kind: KindForbidden}
}

// HTTPStatus maps an error kind to the wire-level status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// Result wraps either a value or a structured business error. The variant is
// fixed at construction. Expected domain failures (not found, conflict, bad
// input) travel as failed Results; infrastructure errors stay plain Go errors.
type Result[T any] struct {
	value T
	err   *Error
	ok    bool
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

func Fail[T any](err *Error) Result[T] {
	if err == nil {
		panic("result: Fail called with nil error")
	}
	return Result[T]{err: err}
}

func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// Value returns the wrapped value. Accessing the value of a failed Result is
// a programming error and panics rather than returning a zero value.
func (r Result[T]) Value() T {
	if !r.ok {
		panic(fmt.Sprintf("result: Value() on failed result: %v", r.err))
	}
	return r.value
}

// Err returns the error of a failed Result, nil on success.
func (r Result[T]) Err() *Error {
	return r.err
}
