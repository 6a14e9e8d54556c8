// Package faults defines the typed error taxonomy shared by the analysis
// pipeline. Callers branch on Kind instead of matching message text, so the
// HTTP layer alone decides user-facing wording.
package faults

import (
	"errors"
	"fmt"
)

// Kind identifies the failure class of a Fault.
type Kind int

const (
	Unknown Kind = iota

	// Input faults: caller mistakes, never retried.
	InvalidPeriod
	InvertedRange
	UnknownCompany

	// Access faults: per-document, absorbed into the failed list unless
	// they eliminate every document.
	AccessDenied
	DocumentNotFound
	UnsupportedFormat
	NoUsableDocuments

	// Gateway faults: terminal for the request.
	MissingCredential
	GatewayRequest
	GatewayExhausted
	Timeout
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case InvalidPeriod:
		return "invalid_period"
	case InvertedRange:
		return "inverted_range"
	case UnknownCompany:
		return "unknown_company"
	case AccessDenied:
		return "access_denied"
	case DocumentNotFound:
		return "document_not_found"
	case UnsupportedFormat:
		return "unsupported_format"
	case NoUsableDocuments:
		return "no_usable_documents"
	case MissingCredential:
		return "missing_credential"
	case GatewayRequest:
		return "gateway_request"
	case GatewayExhausted:
		return "gateway_exhausted"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Fault is the tagged-variant error carried through the pipeline.
// Status and Body are only populated for gateway faults.
type Fault struct {
	Kind   Kind
	Status int    // HTTP status from the model endpoint, if any
	Body   string // response body excerpt, credentials are never included
	msg    string
	cause  error
}

// New creates a Fault of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Fault {
	return &Fault{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a Fault that records an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Fault {
	return &Fault{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// Gateway creates a gateway-request Fault carrying the endpoint status and body.
func Gateway(status int, body string) *Fault {
	return &Fault{
		Kind:   GatewayRequest,
		Status: status,
		Body:   body,
		msg:    fmt.Sprintf("model endpoint returned status %d", status),
	}
}

func (f *Fault) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.msg, f.cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.msg)
}

func (f *Fault) Unwrap() error { return f.cause }

// Is makes errors.Is(err, faults.New(kind, ...)) match on kind alone.
func (f *Fault) Is(target error) bool {
	var other *Fault
	if errors.As(target, &other) {
		return f.Kind == other.Kind
	}
	return false
}

// KindOf extracts the fault kind from an error chain, or Unknown.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return Unknown
}

// IsKind reports whether err carries the given fault kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
