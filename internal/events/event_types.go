package events

import (
	"time"

	"github.com/spec-kit/identity-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered      EventType = "account_registered"
	EventAccountVerified        EventType = "account_verified"
	EventLoginSucceeded         EventType = "login_succeeded"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordChanged        EventType = "password_changed"
	EventSessionRevoked         EventType = "session_revoked"
)

// Event represents an identity lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email  string        `json:"email"`
	Status domain.Status `json:"status"`
}

// SessionRevokedPayload payload.
type SessionRevokedPayload struct {
	TokenValid   bool `json:"token_valid"`
	SelfInitiate bool `json:"self_initiated"`
}
