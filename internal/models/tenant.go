package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents an independent breeding operation (a "traba").
// Every individual, parentage row and cross is scoped to exactly one tenant.
type Tenant struct {
	TenantID       uuid.UUID // UUIDv7
	Name           string    // Unique sign-in name
	DisplayName    string
	CredentialHash string // bcrypt hash, never exposed over the API
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
