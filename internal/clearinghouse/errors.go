package clearinghouse

import (
	"fmt"
)

// TransportError covers every negative clearinghouse response: a non-2xx
// HTTP status, a SOAP fault, or an envelope-level error code. The raw
// response body is retained for the audit log and never shown to end users.
type TransportError struct {
	Kind       string // "http", "soap_fault", "envelope"
	StatusCode int
	Code       string
	Message    string
	RawBody    string
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case "soap_fault":
		return fmt.Sprintf("clearinghouse: soap fault: %s", e.Message)
	case "envelope":
		return fmt.Sprintf("clearinghouse: envelope error %s: %s", e.Code, e.Message)
	default:
		return fmt.Sprintf("clearinghouse: http status %d", e.StatusCode)
	}
}

// TimeoutError reports that the caller-imposed deadline expired before the
// clearinghouse answered. Distinct from TransportError so callers can decide
// to retry a timeout but not a hard fault.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("clearinghouse: request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
