// Package models contains the persistence-level data structures shared by
// repositories and services.
package models

import "time"

// Role is the two-value permission tag carried in token claims.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Account is a registered user profile. Secrets live in the account's
// Credential record, one-to-one by AccountID. Withdrawal soft-deletes the
// row: Active is cleared and DeletedAt set, but the record is retained.
type Account struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	ProfileImage *string
	Bio          *string
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
