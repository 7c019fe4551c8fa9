package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

const otpDigits = 6

// Verifier outcome messages. Callers recognize success by the VERIFIED
// message together with a true status.
const (
	OTPMessageVerified = "VERIFIED"
	OTPMessageInvalid  = "Invalid Otp"
	OTPMessageExpired  = "Otp expired or not found"
)

// OTPService issues, verifies and invalidates one-time codes. Codes are
// single-use: consumers invalidate them explicitly after a successful
// verification, and reissuing for the same (purpose, subject) replaces any
// outstanding challenge.
type OTPService struct {
	store  repository.OTPRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewOTPService builds the service.
func NewOTPService(store repository.OTPRepository, ttl time.Duration, logger *zap.Logger) *OTPService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OTPService{store: store, ttl: ttl, logger: logger}
}

// Issue creates a registration challenge for the subject.
func (s *OTPService) Issue(ctx context.Context, subject string) (string, error) {
	return s.IssueWithPayload(ctx, domain.OTPPurposeRegistration, subject, "")
}

// IssueWithPayload creates a challenge carrying an attached payload to apply
// once the challenge is consumed.
func (s *OTPService) IssueWithPayload(ctx context.Context, purpose domain.OTPPurpose, subject, payload string) (string, error) {
	code, err := generateCode(otpDigits)
	if err != nil {
		return "", err
	}

	challenge := &domain.OTPChallenge{
		Subject:   subject,
		Purpose:   purpose,
		Code:      code,
		Payload:   payload,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.store.Put(ctx, challenge, s.ttl); err != nil {
		return "", err
	}

	s.logger.Debug("otp issued",
		zap.String("subject", subject),
		zap.String("purpose", string(purpose)))
	return code, nil
}

// Verify checks the code against the outstanding challenge for
// (purpose, subject) and returns the verifier envelope. On success the
// challenge's payload is carried as data; the challenge itself stays in the
// store until explicitly invalidated.
func (s *OTPService) Verify(ctx context.Context, code string, purpose domain.OTPPurpose, subject string) domain.Response {
	challenge, err := s.store.Get(ctx, purpose, subject)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return domain.Fail(OTPMessageExpired, nil)
		}
		s.logger.Error("otp lookup failed", zap.Error(err))
		return domain.Fail(OTPMessageExpired, nil)
	}

	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) != 1 {
		return domain.Fail(OTPMessageInvalid, nil)
	}
	return domain.OK(OTPMessageVerified, challenge.Payload)
}

// Invalidate destroys the outstanding challenge for (purpose, subject).
func (s *OTPService) Invalidate(ctx context.Context, purpose domain.OTPPurpose, subject string) error {
	return s.store.Delete(ctx, purpose, subject)
}

func generateCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
