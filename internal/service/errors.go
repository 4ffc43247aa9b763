package service

import (
	"errors"
	"fmt"
)

// Kind classifies service failures for the boundary layer
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInvalidCredential
	KindAlreadyLoggedIn
	KindUnauthenticated
	KindForbidden
	KindUnsupportedDriver
)

// Error is a typed service failure carrying a client-facing message
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches another *Error of the same kind. A target without a message
// matches every error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential}
	ErrAlreadyLoggedIn   = &Error{Kind: KindAlreadyLoggedIn}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrUnsupportedDriver = &Error{Kind: KindUnsupportedDriver}
)

var (
	errUserNotFound       = &Error{KindNotFound, "User not found"}
	errPostNotFound       = &Error{KindNotFound, "Post not found"}
	errNoPostFound        = &Error{KindNotFound, "No post found"}
	errPasswordIncorrect  = &Error{KindInvalidCredential, "Password incorrect"}
	errAlreadyLoggedIn    = &Error{KindAlreadyLoggedIn, "User is already logged in"}
	errNotAuthenticated   = &Error{KindUnauthenticated, "User not authenticated"}
	errPostNotOwned       = &Error{KindForbidden, "Post does not belong to user"}
	errForeignPostCreator = &Error{KindForbidden, "Cannot create post for another user"}
)

func errUnsupportedDriver(driver string) error {
	return &Error{KindUnsupportedDriver, fmt.Sprintf("Database driver %s is not supported.", driver)}
}

// ValidationError holds per-field messages for rejected input
type ValidationError struct {
	Fields map[string][]string
	order  []string
}

// NewValidationError returns a validation error with a single message
func NewValidationError(field, message string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, message)
	return e
}

// Add appends a message for field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Error returns the first message, followed by a count of the rest
func (e *ValidationError) Error() string {
	if len(e.order) == 0 {
		return "The given data was invalid."
	}
	total := 0
	for _, msgs := range e.Fields {
		total += len(msgs)
	}
	first := e.Fields[e.order[0]][0]
	switch rest := total - 1; rest {
	case 0:
		return first
	case 1:
		return first + " (and 1 more error)"
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// KindOf classifies err; anything that is not a service error is internal
func KindOf(err error) Kind {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return KindInternal
}
