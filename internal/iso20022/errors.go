package iso20022

import "fmt"

// MalformedInputError reports a domain constructor invariant failure. It is
// always caller-fixable and never retried automatically.
type MalformedInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: field %q: %s (value %q)", e.Field, e.Reason, e.Value)
}

// ValidationFailedError signals that validation produced a non-empty report.
// The full report travels with the error so callers can surface every defect,
// not just the first.
type ValidationFailedError struct {
	Report ValidationReport
}

func (e *ValidationFailedError) Error() string {
	if len(e.Report.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Report.Errors[0].Field, e.Report.Errors[0].Reason)
	}
	return fmt.Sprintf("validation failed: %d field errors (first: %s: %s)",
		len(e.Report.Errors), e.Report.Errors[0].Field, e.Report.Errors[0].Reason)
}

// ParseError reports XML that is not well-formed or is missing a structurally
// required element. Path names the offending element when determinable.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedMessageTypeError reports a request for a message family the
// engine does not implement, or a document whose namespace does not match
// the requested family.
type UnsupportedMessageTypeError struct {
	MessageType MessageType
	Namespace   string
}

func (e *UnsupportedMessageTypeError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("unsupported message type: namespace %q does not match %q", e.Namespace, e.MessageType)
	}
	return fmt.Sprintf("unsupported message type: %q", e.MessageType)
}

// OutOfRangeError reports a crypto payment amount outside the asset's
// configured transfer bounds.
type OutOfRangeError struct {
	Asset  string
	Amount string
	Min    string
	Max    string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("amount %s out of range for %s: allowed [%s, %s]", e.Amount, e.Asset, e.Min, e.Max)
}
