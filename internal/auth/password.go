package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PolicyMessage explains the password complexity requirements.
const PolicyMessage = "Password must be at least 8 characters long, include an uppercase letter, a number, and a special character."

const passwordSymbols = "@$!%*?&"

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// CheckPasswordPolicy reports whether the password meets the complexity
// policy: minimum 8 characters, at least one uppercase letter, one digit and
// one symbol from the allowed set, with no characters outside letters,
// digits and that set.
func CheckPasswordPolicy(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return false
		}
	}
	return hasUpper && hasDigit && hasSymbol
}
