package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/domain"
)

func newOTPTestService() (*OTPService, *memOTPRepo) {
	repo := newMemOTPRepo()
	return NewOTPService(repo, time.Minute, zap.NewNop()), repo
}

func TestOTPIssueAndVerify(t *testing.T) {
	svc, _ := newOTPTestService()
	ctx := context.Background()

	code, err := svc.Issue(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	res := svc.Verify(ctx, code, domain.OTPPurposeRegistration, "ada@example.com")
	require.True(t, res.Success)
	require.Equal(t, OTPMessageVerified, res.Message)
}

func TestOTPVerifyWrongCode(t *testing.T) {
	svc, _ := newOTPTestService()
	ctx := context.Background()

	code, err := svc.Issue(ctx, "ada@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	res := svc.Verify(ctx, wrong, domain.OTPPurposeRegistration, "ada@example.com")
	require.False(t, res.Success)
	require.Equal(t, OTPMessageInvalid, res.Message)
}

func TestOTPVerifyMissingChallenge(t *testing.T) {
	svc, _ := newOTPTestService()

	res := svc.Verify(context.Background(), "123456", domain.OTPPurposePassword, "ghost@example.com")
	require.False(t, res.Success)
	require.Equal(t, OTPMessageExpired, res.Message)
}

func TestOTPPayloadRoundTrip(t *testing.T) {
	svc, _ := newOTPTestService()
	ctx := context.Background()

	code, err := svc.IssueWithPayload(ctx, domain.OTPPurposePassword, "ada@example.com", "hashed-secret")
	require.NoError(t, err)

	res := svc.Verify(ctx, code, domain.OTPPurposePassword, "ada@example.com")
	require.True(t, res.Success)
	require.Equal(t, "hashed-secret", res.Data)

	// purposes are isolated: the same code does not satisfy another tag
	other := svc.Verify(ctx, code, domain.OTPPurposeRegistration, "ada@example.com")
	require.False(t, other.Success)
}

func TestOTPReissueReplacesChallenge(t *testing.T) {
	svc, _ := newOTPTestService()
	ctx := context.Background()

	first, err := svc.Issue(ctx, "ada@example.com")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, "ada@example.com")
	require.NoError(t, err)

	if first != second {
		res := svc.Verify(ctx, first, domain.OTPPurposeRegistration, "ada@example.com")
		require.False(t, res.Success)
	}
	res := svc.Verify(ctx, second, domain.OTPPurposeRegistration, "ada@example.com")
	require.True(t, res.Success)
}

func TestOTPInvalidate(t *testing.T) {
	svc, _ := newOTPTestService()
	ctx := context.Background()

	code, err := svc.Issue(ctx, "ada@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, domain.OTPPurposeRegistration, "ada@example.com"))

	res := svc.Verify(ctx, code, domain.OTPPurposeRegistration, "ada@example.com")
	require.False(t, res.Success)
	require.Equal(t, OTPMessageExpired, res.Message)
}
