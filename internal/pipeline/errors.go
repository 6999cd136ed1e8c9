// Package pipeline composes the record store, feature projector, segment
// classifier, label codec, and email generator into the two public
// operations: Classify and Generate.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/ignite/payment-assist/internal/records"
	"github.com/ignite/payment-assist/internal/segment"
)

// Sentinel errors for the pipeline's failure taxonomy. Handlers dispatch on
// these with errors.Is.
var (
	// ErrNotFound: the customer identifier is absent from the record store.
	// Recoverable by the caller; never retried internally.
	ErrNotFound = records.ErrNotFound

	// ErrUnknownCode: the classifier produced a code the label codec does
	// not know. Indicates artifact skew, non-recoverable per request.
	ErrUnknownCode = segment.ErrUnknownCode

	// ErrNotReady: the model or codec failed to initialize. The process
	// keeps serving so it stays inspectable, but operations fail fast.
	ErrNotReady = errors.New("pipeline not ready")
)

// ErrorKind names the failure class in structured errors.
type ErrorKind string

const (
	KindNotFound    ErrorKind = "not_found"
	KindUnknownCode ErrorKind = "unknown_code"
	KindNotReady    ErrorKind = "not_ready"
	KindInternal    ErrorKind = "internal"
)

// Error is the structured error surfaced to callers: a kind plus the
// offending customer identifier. It unwraps to the matching sentinel.
type Error struct {
	Kind       ErrorKind
	CustomerID string
	Err        error
}

func (e *Error) Error() string {
	if e.CustomerID == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (customer %s): %v", e.Kind, e.CustomerID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func notFoundErr(customerID string, err error) *Error {
	return &Error{Kind: KindNotFound, CustomerID: customerID, Err: err}
}

func unknownCodeErr(customerID string, err error) *Error {
	return &Error{Kind: KindUnknownCode, CustomerID: customerID, Err: err}
}

func notReadyErr(customerID string) *Error {
	return &Error{Kind: KindNotReady, CustomerID: customerID, Err: ErrNotReady}
}

func internalErr(customerID string, err error) *Error {
	return &Error{Kind: KindInternal, CustomerID: customerID, Err: err}
}
