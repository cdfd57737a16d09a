package utils

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("conflict")
)

// AppError carries a caller-facing message together with one of the kinds
// above, so errors.Is(err, ErrNotFound) keeps working through wrapping.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

func newAppError(kind error, format string, args ...interface{}) error {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) error {
	return newAppError(ErrUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) error {
	return newAppError(ErrForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return newAppError(ErrNotFound, format, args...)
}

func BadRequest(format string, args ...interface{}) error {
	return newAppError(ErrBadRequest, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newAppError(ErrConflict, format, args...)
}
