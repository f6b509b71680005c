package util

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError so the HTTP layer can pick a status and
// callers can branch without string matching.
type ErrorKind int

const (
	// KindValidation covers bad or missing input and exceeded caps.
	KindValidation ErrorKind = iota
	// KindNotFound covers references to absent entities.
	KindNotFound
	// KindUpload covers object-storage failures; retryable.
	KindUpload
	// KindPayment covers provider call failures and unpaid sessions.
	KindPayment
	// KindConflict covers invariant violations such as duplicate records.
	KindConflict
	// KindForbidden covers acting on resources the caller does not own.
	KindForbidden
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validationf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func UploadErr(msg string, err error) *AppError {
	return &AppError{Kind: KindUpload, Message: msg, Err: err}
}

func PaymentErr(msg string, err error) *AppError {
	return &AppError{Kind: KindPayment, Message: msg, Err: err}
}

func Conflictf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Kind == kind
}
