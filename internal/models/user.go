package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleNormalUser Role = "NORMAL_USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleNormalUser
}

type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Name           string    `json:"name" db:"name"`
	Role           Role      `json:"role" db:"role"`
	OrganisationID uuid.UUID `json:"organisation_id" db:"organisation_id"`
	CredentialHash string    `json:"-" db:"credential_hash"`
	// SessionVersion invalidates every outstanding refresh token when bumped.
	SessionVersion int       `json:"-" db:"session_version"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
