package api

import "fmt"

// Kind classifies a client-facing failure.
type Kind int

const (
	// KindValidation is a local precondition failure. It never reaches the network.
	KindValidation Kind = iota
	// KindServerRejected is a non-success status reported by the e-shop service.
	// Its message is surfaced to the user verbatim.
	KindServerRejected
	// KindTransientNetwork is a transport or parse failure with no usable
	// server response. The original cause is not shown to the user.
	KindTransientNetwork
)

// TransientMessage is the generic retry-later message shown for network failures.
const TransientMessage = "Network error, try again later."

// Error is the failure type returned by every flow in this module.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation builds a local precondition error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// ServerRejected wraps a message reported by the service.
func ServerRejected(message string) *Error {
	return &Error{Kind: KindServerRejected, Message: message}
}

// TransientNetwork builds the generic network failure error.
func TransientNetwork() *Error {
	return &Error{Kind: KindTransientNetwork, Message: TransientMessage}
}

// KindOf extracts the kind of err. Unknown error types are treated as
// transient so callers never show internal details to the user.
func KindOf(err error) Kind {
	if apiErr, ok := err.(*Error); ok {
		return apiErr.Kind
	}
	return KindTransientNetwork
}
