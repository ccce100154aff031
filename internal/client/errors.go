package client

import (
	"fmt"
	"strings"
)

// ValidationError reports client-side rule violations. It never reaches
// the network: a submission carrying one was rejected before any request
// was built.
type ValidationError struct {
	error

	Reasons []string
}

func NewValidationError(reasons []string) *ValidationError {
	return &ValidationError{
		error:   fmt.Errorf("submission blocked: %s", strings.Join(reasons, ", ")),
		Reasons: reasons,
	}
}

// RequestRejectedError is a 4xx from the backend. Detail carries the
// response body's "detail" field verbatim when present.
type RequestRejectedError struct {
	error

	StatusCode int
	Detail     string
}

func NewRequestRejectedError(statusCode int, detail string) *RequestRejectedError {
	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("request rejected with status %d", statusCode)
	}
	return &RequestRejectedError{
		error:      fmt.Errorf("%s", msg),
		StatusCode: statusCode,
		Detail:     detail,
	}
}

// TransportError covers network failures, non-JSON responses and 5xx
// statuses. Callers polling a job treat it as transient.
type TransportError struct {
	error
}

func NewTransportError(err error) *TransportError {
	return &TransportError{fmt.Errorf("transport failure: %w", err)}
}

func NewTransportStatusError(statusCode int) *TransportError {
	return &TransportError{fmt.Errorf("transport failure: server returned status %d", statusCode)}
}
