// Package apperr defines the error taxonomy shared by every feature.
// Feature packages declare their sentinel errors with New so that the HTTP
// layer can translate them without knowing the feature.
package apperr

import "errors"

// Kind classifies an error for translation to an external response.
type Kind uint8

const (
	// Internal is an infrastructure failure. Errors without a Kind are Internal.
	Internal Kind = iota
	// Validation is a malformed request or an unknown foreign reference.
	Validation
	// Unauthenticated means no valid principal is attached to the request.
	Unauthenticated
	// Forbidden means the principal is authenticated but not entitled.
	Forbidden
	// NotFound means the referenced entity does not exist.
	NotFound
	// Conflict is a uniqueness violation.
	Conflict
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified error with a message safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// PublicMessage returns the client-facing message of err.
// Unclassified errors never expose their text.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "internal server error"
}
