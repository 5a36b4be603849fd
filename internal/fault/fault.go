package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure into one of the stable error kinds
// reported to callers. Kinds are part of the tool's wire contract and must
// not change between releases.
type Kind string

const (
	InvalidReference       Kind = "invalid_reference"
	MissingCredential      Kind = "missing_credential"
	AuthError              Kind = "auth_error"
	PermissionDenied       Kind = "permission_denied"
	ReferenceNotFound      Kind = "reference_not_found"
	UnsupportedContentType Kind = "unsupported_content_type"
	SizeLimitExceeded      Kind = "size_limit_exceeded"
	Timeout                Kind = "timeout"
	UpstreamUnavailable    Kind = "upstream_unavailable"
	UpstreamError          Kind = "upstream_error"
	ConversionError        Kind = "conversion_error"
	Internal               Kind = "internal_error"
)

// Error carries a stable error kind alongside a human-readable message.
// It is constructed once at the boundary where a failure is detected and
// propagated unchanged to the tool response.
type Error struct {
	Kind    Kind
	Message string
	// Status holds the upstream HTTP status code for upstream_error kinds.
	// Zero when not applicable.
	Status int
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New creates an Error with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Upstream creates an upstream_error carrying the remote status code.
func Upstream(status int, format string, args ...any) *Error {
	return &Error{Kind: UpstreamError, Message: fmt.Sprintf(format, args...), Status: status}
}

// KindOf returns the kind of err, or internal_error if err carries no kind.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// From returns err as a *Error, wrapping unclassified errors as internal_error.
// The original message is kept; callers at the tool boundary decide what is
// safe to surface.
func From(err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{Kind: Internal, Message: err.Error()}
}
