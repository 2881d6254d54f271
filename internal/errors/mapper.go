// Package errors defines the application's error taxonomy and maps
// storage/infra failures onto it.
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflicting write")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrExternalService    = errors.New("external service unavailable")

	// ErrValidation is the parent of every user-input failure.
	ErrValidation = errors.New("validation failed")

	ErrEmptyCredentials  = validation("username and password are required")
	ErrDuplicateUsername = validation("username already exists")
	ErrSelfFollow        = validation("you cannot follow yourself")
	ErrEmptyComment      = validation("comment cannot be empty")
	ErrEmptyMessage      = validation("message cannot be empty")
	ErrInvalidPage       = validation("invalid page number")
)

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

func validation(msg string) error { return &validationError{msg: msg} }

// Is and As re-export the standard helpers so callers importing this package
// under its own name do not need a second alias.
func Is(err, target error) bool { return errors.Is(err, target) }
func As(err error, target any) bool { return errors.As(err, target) }

// Map converts repo/infra errors into application errors.
// Keeps the service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict

	default:
		// context errors and anything unknown bubble up untouched
		return err
	}
}

// Status picks the HTTP status that best describes err.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrExternalService):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Notice returns text that is safe to show to the end user.
func Notice(err error) string {
	var v *validationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &v):
		return v.msg
	case errors.Is(err, ErrUnauthenticated):
		return "Please log in to continue."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, ErrForbidden):
		return "You are not authorized to do that."
	case errors.Is(err, ErrNotFound):
		return "The page you are looking for does not exist."
	case errors.Is(err, ErrExternalService):
		return "That service is unavailable right now."
	default:
		return "Something went wrong. Please try again."
	}
}
