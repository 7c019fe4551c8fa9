package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/identity-service/internal/domain"
)

// ErrOTPNotFound is returned when no live challenge exists for the
// (purpose, subject) pair. An expired challenge is indistinguishable from a
// missing one; the TTL is enforced by the store.
var ErrOTPNotFound = errors.New("otp challenge not found")

// OTPRepository persists short-lived verification challenges.
type OTPRepository interface {
	Put(ctx context.Context, challenge *domain.OTPChallenge, ttl time.Duration) error
	Get(ctx context.Context, purpose domain.OTPPurpose, subject string) (*domain.OTPChallenge, error)
	Delete(ctx context.Context, purpose domain.OTPPurpose, subject string) error
}

type otpRepository struct {
	client *redis.Client
}

// NewOTPRepository returns a Redis-backed implementation. Challenge records
// expire naturally through key TTLs; reissuing for the same (purpose, subject)
// replaces the previous record.
func NewOTPRepository(client *redis.Client) OTPRepository {
	return &otpRepository{client: client}
}

func otpKey(purpose domain.OTPPurpose, subject string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, subject)
}

func (r *otpRepository) Put(ctx context.Context, challenge *domain.OTPChallenge, ttl time.Duration) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, otpKey(challenge.Purpose, challenge.Subject), payload, ttl).Err()
}

func (r *otpRepository) Get(ctx context.Context, purpose domain.OTPPurpose, subject string) (*domain.OTPChallenge, error) {
	raw, err := r.client.Get(ctx, otpKey(purpose, subject)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}

	var challenge domain.OTPChallenge
	if err := json.Unmarshal(raw, &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *otpRepository) Delete(ctx context.Context, purpose domain.OTPPurpose, subject string) error {
	return r.client.Del(ctx, otpKey(purpose, subject)).Err()
}
