package types

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a failure for status mapping and metrics.
type ErrorKind string

const (
	KindShape           ErrorKind = "shape"
	KindKey             ErrorKind = "key"
	KindValidation      ErrorKind = "validation"
	KindConfiguration   ErrorKind = "configuration"
	KindUpstream        ErrorKind = "upstream"
	KindNotFound        ErrorKind = "not_found"
	KindInternal        ErrorKind = "internal"
	KindRateLimited     ErrorKind = "rate_limited"
	KindPayloadTooLarge ErrorKind = "payload_too_large"
	KindUnavailable     ErrorKind = "unavailable"
)

// Error is a failure that knows its HTTP status and user-facing message.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewShapeError(message string) *Error {
	return &Error{Kind: KindShape, Status: http.StatusBadRequest, Message: message}
}

func NewKeyError(message string) *Error {
	return &Error{Kind: KindKey, Status: http.StatusBadRequest, Message: message}
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func NewConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Status: http.StatusInternalServerError, Message: message}
}

// NewUpstreamError carries the status the upstream reported. A status outside
// the HTTP range is replaced with 500.
func NewUpstreamError(status int, message string, cause error) *Error {
	if !validStatus(status) {
		status = http.StatusInternalServerError
	}
	return &Error{Kind: KindUpstream, Status: status, Message: message, Err: cause}
}

func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, Err: cause}
}

func NewNotFoundError() *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: "Not Found"}
}

func NewRateLimitedError(message string) *Error {
	return &Error{Kind: KindRateLimited, Status: http.StatusTooManyRequests, Message: message}
}

func NewPayloadTooLargeError(cause error) *Error {
	return &Error{Kind: KindPayloadTooLarge, Status: http.StatusRequestEntityTooLarge, Message: "Request body too large", Err: cause}
}

func NewUnavailableError(message string) *Error {
	return &Error{Kind: KindUnavailable, Status: http.StatusServiceUnavailable, Message: message}
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && validStatus(e.Status) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Internal Server Error"
}

// KindOf returns the kind carried by err, KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) && e.Kind != "" {
		return e.Kind
	}
	return KindInternal
}

func validStatus(code int) bool {
	return code >= 100 && code <= 599
}
