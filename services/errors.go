package services

import (
	"errors"
	"fmt"

	"campus-connect/repository"
)

// Kind classifies a service failure
type Kind string

const (
	KindNotFound         Kind = "NotFound"
	KindForbidden        Kind = "Forbidden"
	KindConflict         Kind = "Conflict"
	KindInvalidInput     Kind = "InvalidInput"
	KindInvalidOperation Kind = "InvalidOperation"
	KindUnauthorized     Kind = "Unauthorized"
	KindInternal         Kind = "Internal"
)

// Error is the structured failure returned by every service operation
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err; errors not produced by a service are Internal
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func notFound(message string) *Error     { return newError(KindNotFound, message) }
func forbidden(message string) *Error    { return newError(KindForbidden, message) }
func conflict(message string) *Error     { return newError(KindConflict, message) }
func invalidInput(message string) *Error { return newError(KindInvalidInput, message) }

func internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// fromRepo turns a repository sentinel into a service error. what names the
// entity for NotFound messages.
func fromRepo(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound(what + " not found")
	case errors.Is(err, repository.ErrDuplicate):
		return conflict(what + " already exists")
	case errors.Is(err, repository.ErrConflict):
		return conflict(what + " was modified concurrently")
	}
	return internal("failed to access "+what, err)
}
