package domain

import "time"

// OTPPurpose tags a one-time code with the transition it protects.
type OTPPurpose string

const (
	OTPPurposeRegistration OTPPurpose = "REGISTRATION"
	OTPPurposePassword     OTPPurpose = "PASSWORD"
)

// OTPChallenge is a short-lived verification challenge. Payload optionally
// carries data to apply once the challenge is consumed (e.g. a pre-hashed
// replacement password).
type OTPChallenge struct {
	Subject   string     `json:"subject"`
	Purpose   OTPPurpose `json:"purpose"`
	Code      string     `json:"code"`
	Payload   string     `json:"payload,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
}
