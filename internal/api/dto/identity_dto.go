package dto

import (
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// ToInput maps the request onto the workflow input.
func (r RegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.Firstname,
		LastName:  r.Lastname,
	}
}

// VerifyRequest payload for registration OTP confirmation.
type VerifyRequest struct {
	Username string `json:"username"`
	OTP      string `json:"otp"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ForgotPasswordRequest payload for starting a password reset. Password is
// the replacement credential.
type ForgotPasswordRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// VerifyPasswordRequest payload for finalizing a password reset.
type VerifyPasswordRequest struct {
	Username string `json:"username"`
	OTP      string `json:"otp"`
	Role     string `json:"role"`
}

// ParseRole resolves the role field. An empty value passes through so the
// workflow can answer with its own required-fields envelope.
func ParseRole(value string) (domain.Role, bool) {
	if value == "" {
		return "", true
	}
	return domain.ParseRole(value)
}
