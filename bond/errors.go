package bond

import "fmt"

// Error is a structured engine error with a stable code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Predefined errors. All validation errors are terminal: the engine never
// returns partial results alongside them.
var (
	// ErrInvalidInput covers missing cash flows, a missing or ambiguous
	// price, and non-positive prices. Raised before any iteration.
	ErrInvalidInput = &Error{Code: "INVALID_INPUT", Message: "invalid input"}

	// ErrNoFutureCashflows means settlement falls on or after the final
	// cash flow, leaving nothing to discount.
	ErrNoFutureCashflows = &Error{Code: "NO_FUTURE_CASHFLOWS", Message: "no cash flows after settlement"}

	// ErrUnboundedRoot means no sign change exists across the default
	// bracket or the candidate-yield scan: the requested price is
	// economically inconsistent with the cash flows.
	ErrUnboundedRoot = &Error{Code: "UNBOUNDED_ROOT", Message: "no yield bracket found for target price"}

	// ErrEmptyCurve means spread was requested against a benchmark curve
	// with no points.
	ErrEmptyCurve = &Error{Code: "CURVE_EMPTY", Message: "benchmark curve has no points"}
)

// invalid builds an INVALID_INPUT error with a specific reason.
func invalid(format string, args ...any) *Error {
	return &Error{Code: ErrInvalidInput.Code, Message: fmt.Sprintf(format, args...)}
}

// wrapError creates a new error with the same code but with a cause.
func wrapError(base *Error, cause error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Cause: cause}
}
