package domain

import "time"

// Role enumerates the registrable principal kinds.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Status represents the verification state gating authentication.
type Status string

const (
	StatusInactive Status = "INACTIVE"
	StatusActive   Status = "ACTIVE"
)

// Account is the domain model for a registrable principal. User and
// administrator accounts share this single entity, differentiated by Role.
type Account struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	Status       Status
	Confirmed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ParseRole maps a wire value onto a Role.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}
