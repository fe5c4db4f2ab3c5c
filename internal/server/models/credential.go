package models

import "time"

// Credential holds an account's secrets: the password hash and the currently
// active refresh token. RefreshToken is nil when no session is active; at
// most one non-nil value exists per account, which is what enforces the
// single-active-session model.
type Credential struct {
	AccountID    string
	PasswordHash string
	RefreshToken *string
	Deleted      bool
	DeletedAt    *time.Time
}
