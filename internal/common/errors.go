// Package common defines sentinel errors shared across the service and
// repository layers. Callers match them with errors.Is.
package common

import "errors"

var (
	// repository-level errors
	ErrorNotFound = errors.New("not found")

	// service-level errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential and token failures are deliberately generic: a caller must
	// not be able to tell an unknown email from a wrong password, or an
	// expired token from a forged one.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorInvalidToken       = errors.New("invalid or expired token")
	ErrorInvalidResetToken  = errors.New("invalid or expired reset token")

	// sign-up errors
	ErrorEmailExists = errors.New("email already registered")
)
