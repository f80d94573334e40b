package gatewayerr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind is the stable failure taxonomy every non-success response falls into.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindRemote      Kind = "remote"
	KindTimeout     Kind = "timeout"
	KindUnavailable Kind = "unavailable"
	KindProtocol    Kind = "protocol"
	KindInternal    Kind = "internal"
)

const (
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamProtocol    = "UPSTREAM_PROTOCOL_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
)

type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s(%d): %s", e.Code, e.Status, e.Message)
}

func Validation(details []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Code:    CodeValidationFailed,
		Message: "request validation failed",
		Details: details,
	}
}

// Remote mirrors the upstream HTTP status. The node answers application-level
// RPC errors with 5xx/4xx; a 3xx or a sub-400 status on the error path is a
// protocol violation and is normalized to 502.
func Remote(upstreamStatus int, message string) *Error {
	status := upstreamStatus
	if status < http.StatusBadRequest {
		status = http.StatusBadGateway
	}

	return &Error{
		Kind:    KindRemote,
		Status:  status,
		Code:    CodeUpstreamError,
		Message: message,
	}
}

func Timeout(message string) *Error {
	return &Error{
		Kind:    KindTimeout,
		Status:  http.StatusGatewayTimeout,
		Code:    CodeUpstreamTimeout,
		Message: message,
	}
}

func Unavailable(message string) *Error {
	return &Error{
		Kind:    KindUnavailable,
		Status:  http.StatusServiceUnavailable,
		Code:    CodeUpstreamUnavailable,
		Message: message,
	}
}

func Protocol(message string) *Error {
	return &Error{
		Kind:    KindProtocol,
		Status:  http.StatusBadGateway,
		Code:    CodeUpstreamProtocol,
		Message: message,
	}
}

func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: err.Error(),
	}
}

// Classify maps a transport error from a single upstream attempt into the
// taxonomy: deadline/timeout conditions become Timeout, everything else on
// the dial/send path means the node gave no answer and becomes Unavailable.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(fmt.Sprintf("upstream call timed out: %v", err))
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout(fmt.Sprintf("upstream call timed out: %v", err))
	}

	return Unavailable(fmt.Sprintf("upstream node is unreachable: %v", err))
}

// From converts any error into a classified one; unrecognized errors fall
// back to the 500 catch-all.
func From(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	return Internal(err)
}
