// Package users holds the account model, its persistence, and the profile endpoint.
// Accounts are created by the auth package at registration and are immutable afterwards.
package users

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered user.
type Account struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // bcrypt hash, never serialized
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
