package rbac

import (
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/rbac-in-go/pkg/server/store"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrHasDependents = errors.New("has dependents")
	ErrForbidden     = errors.New("forbidden")
)

// Error is a domain error. Message is safe to show to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf returns an error of kind ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

// NotFoundf returns an error of kind ErrNotFound.
func NotFoundf(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

// Conflictf returns an error of kind ErrConflict.
func Conflictf(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

// Forbiddenf returns an error of kind ErrForbidden.
func Forbiddenf(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

func hasDependentsf(format string, args ...interface{}) error {
	return newError(ErrHasDependents, format, args...)
}

// storeErr maps storage sentinels onto domain errors for the entity
// identified by label and id.
func storeErr(err error, label string, id uint) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return NotFoundf("%s %d not found", label, id)
	case errors.Is(err, store.ErrDuplicate):
		return Conflictf("%s already exists", label)
	default:
		return err
	}
}

func storeNameErr(err error, label, name string) error {
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundf("%s %q not found", label, name)
	}
	return err
}
