// Package models holds the persisted data shapes shared by repositories and
// services.
package models

import (
	"strings"
	"time"
)

// Role designates whether an account belongs to a guest or a host.
type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
)

// Valid reports whether r is one of the known role tags.
func (r Role) Valid() bool {
	return r == RoleGuest || r == RoleHost
}

// Account is an application user. Email is the sole login identifier and is
// stored case-normalized. PasswordHash is an opaque one-way hash (bcrypt,
// salt and cost embedded) and must never be logged or echoed back.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  string
	Bio          string
	AvatarKey    string
	Role         Role
	IsVerified   bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail lowercases and trims an email address so that lookups and
// the uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
