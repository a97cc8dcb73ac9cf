package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrListNotFound    = errors.New("word list not found")
	ErrUnknownCategory = errors.New("unknown list category")
	ErrInvalidInput    = errors.New("invalid input")
	ErrSliceNotFound   = errors.New("slice not found")
	ErrStoreNotLoaded  = errors.New("store not loaded")
	ErrInternal        = errors.New("internal error")
	ErrTimeout         = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrListNotFound), errors.Is(err, ErrSliceNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnknownCategory), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
