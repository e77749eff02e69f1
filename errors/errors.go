package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies a failure for the HTTP boundary.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindLimitExceeded    Kind = "limit_exceeded"
	KindUpstream         Kind = "upstream"
	KindEmptyResult      Kind = "empty_result"
	KindMethodNotAllowed Kind = "method_not_allowed"
	KindInternal         Kind = "internal"
)

type AppError struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"-"`
	Message string `json:"message"`
	Op      string `json:"-"`
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

// Stack renders the cause with its recorded stack trace, if any.
func (e *AppError) Stack() string {
	if e.Err == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.Err)
}

// Body is the JSON error payload returned to clients.
type Body struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (e *AppError) Body() Body {
	return Body{Message: e.Message}
}

func E(op string, kind Kind, code int, err error, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidInput(op string, err error, message string) *AppError {
	return E(op, KindValidation, http.StatusBadRequest, err, message)
}

func LimitExceeded(op string, err error, message string) *AppError {
	return E(op, KindLimitExceeded, http.StatusBadRequest, err, message)
}

func EmptyResult(op string, err error, message string) *AppError {
	return E(op, KindEmptyResult, http.StatusBadRequest, err, message)
}

func MethodNotAllowed(op string, message string) *AppError {
	return E(op, KindMethodNotAllowed, http.StatusMethodNotAllowed, nil, message)
}

// Upstream wraps a failure from yt-dlp, the caption fetch or the LLM. The
// cause gets a stack trace attached unless it already carries one.
func Upstream(op string, err error, message string) *AppError {
	if err != nil && !hasStack(err) {
		err = pkgerrors.WithStack(err)
	}
	return E(op, KindUpstream, http.StatusInternalServerError, err, message)
}

func Internal(op string, err error, message string) *AppError {
	if err != nil && !hasStack(err) {
		err = pkgerrors.WithStack(err)
	}
	return E(op, KindInternal, http.StatusInternalServerError, err, message)
}

// As extracts an *AppError from err. Anything else becomes an Internal error
// carrying fallback as its message.
func As(err error, fallback string) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("errors.As", err, fallback)
}

func Is(err error, kind Kind) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsServerError(err error) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code >= http.StatusInternalServerError
	}
	return err != nil
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func hasStack(err error) bool {
	var st stackTracer
	return stderrors.As(err, &st)
}
