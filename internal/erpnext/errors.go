package erpnext

import (
	"errors"

	"github.com/roivaz/erpnext-mcp/internal/errnorm"
)

// Error is the single failure type returned by Client methods. Its message
// is the normalized diagnostic, ready to be shown to a caller unchanged:
//
//	var apiErr *erpnext.Error
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
type Error struct {
	// Operation labels the failed call, e.g. "Failed to get Customer CUST-0001".
	Operation string
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	// Kind records which error shape the message was taken from.
	Kind    errnorm.Kind
	message string
	cause   error
}

func newError(op string, ctx errnorm.Context) *Error {
	return &Error{
		Operation:  op,
		StatusCode: ctx.Status,
		Kind:       errnorm.Resolve(ctx).Kind,
		message:    errnorm.Format(op, ctx),
		cause:      ctx.Err,
	}
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.cause }

// IsStatus reports whether err is an *Error carrying the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}
	return false
}

var errMissingCredentials = errors.New("username and password are required")
