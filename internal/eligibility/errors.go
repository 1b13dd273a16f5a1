package eligibility

import (
	"fmt"
)

// ValidationError reports bad or insufficient patient input, caught before
// any network call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("eligibility: invalid input: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("eligibility: invalid input: %s", e.Reason)
}

// ConfigurationError reports an unknown payer code or a missing dialect.
type ConfigurationError struct {
	PayerCode string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("eligibility: payer %s not configured: %v", e.PayerCode, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ParseError reports that the 271 payload could not be located inside the
// response envelope. A 271 that parsed but contained no usable data is not an
// error; it degrades to warnings on the result.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("eligibility: parse 271: %s", e.Reason)
}
