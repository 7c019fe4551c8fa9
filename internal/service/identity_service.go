package service

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
)

// Workflow messages surfaced to callers.
const (
	msgUnexpected        = "An unexpected error occurred"
	msgSaveError         = "Error while saving"
	msgValidationErrors  = "Validation errors"
	msgEmailRegistered   = "Email is already registered"
	msgOTPSendError      = "Error While sending otp"
	msgLoginMissingUser  = "Login Failed, Please Enter All required fields (username, password)"
	msgLoginMissingPass  = "Login Failed, Please Enter password"
	msgLoginNoUser       = "User does not exist"
	msgLoginBadPassword  = "Invalid Credentials"
	msgLoginSuccess      = "Login Success"
	msgFillRequired      = "Please fill all the required fields"
	msgWrongPassword     = "Wrong Password"
	msgForgotNoUser      = "user not exist for given user name"
	msgVerifyRequired    = "Enter all the required information to verify like username otp role"
	msgVerifyNoUser      = "user not exist"
	msgPasswordUpdated   = "Otp Verified and PASSWORD Updated"
	msgAccountVerified   = "Account verified"
	msgVerificationError = "Account verification failed"
)

// TokenProvider issues and inspects session tokens.
type TokenProvider interface {
	Generate(account *domain.Account) (string, error)
	Validate(token string) bool
	Subject(token string) (string, error)
}

// TokenBlacklist is the session revocation set.
type TokenBlacklist interface {
	Add(ctx context.Context, token string) error
}

// OTPProvider issues and verifies one-time codes, optionally carrying a
// payload to apply on consumption.
type OTPProvider interface {
	Issue(ctx context.Context, subject string) (string, error)
	IssueWithPayload(ctx context.Context, purpose domain.OTPPurpose, subject, payload string) (string, error)
	Verify(ctx context.Context, code string, purpose domain.OTPPurpose, subject string) domain.Response
	Invalidate(ctx context.Context, purpose domain.OTPPurpose, subject string) error
}

// RegisterInput carries candidate fields for a registration.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// Validate enforces the structural field constraints and reports violations
// as a field -> message map.
func (r RegisterInput) Validate() map[string]string {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
	)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validation.Errors)
	if !ok {
		return map[string]string{"input": err.Error()}
	}
	out := make(map[string]string, len(fieldErrs))
	for field, ferr := range fieldErrs {
		out[field] = ferr.Error()
	}
	return out
}

// IdentityService orchestrates the credential lifecycle: registration, OTP
// verification, login, password reset and logout. Every public operation
// returns a structured result and never lets an internal error escape to the
// caller.
type IdentityService struct {
	accounts   repository.AccountRepository
	otp        OTPProvider
	mailer     Mailer
	tokens     TokenProvider
	blacklist  TokenBlacklist
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	mailSubj   string
}

// IdentityDependencies encapsulates collaborator requirements.
type IdentityDependencies struct {
	Accounts   repository.AccountRepository
	OTP        OTPProvider
	Mailer     Mailer
	Tokens     TokenProvider
	Blacklist  TokenBlacklist
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewIdentityService builds the service.
func NewIdentityService(cfg config.Config, deps IdentityDependencies) *IdentityService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{
		accounts:   deps.Accounts,
		otp:        deps.OTP,
		mailer:     deps.Mailer,
		tokens:     deps.Tokens,
		blacklist:  deps.Blacklist,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
		mailSubj:   cfg.Mail.Subject,
	}
}

// Register creates or reuses a pending account for (email, role), hashes the
// credential and kicks off OTP verification. An ACTIVE account for the same
// identity rejects the attempt with a field-level conflict.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput, role domain.Role) domain.Response {
	account, err := s.accounts.FindByUsernameRoleStatus(ctx, input.Email, role, domain.StatusInactive)
	if err != nil {
		if err != pgx.ErrNoRows {
			s.logger.Error("pending account lookup failed", zap.Error(err))
			return domain.Fail(msgUnexpected, nil)
		}
		account = nil
	}

	exists, err := s.accounts.ExistsActiveByIdentifier(ctx, input.Email, role)
	if err != nil {
		s.logger.Error("active account check failed", zap.Error(err))
		return domain.Fail(msgUnexpected, nil)
	}
	if exists {
		return domain.Fail(msgSaveError, map[string]string{"email": msgEmailRegistered})
	}

	if errMap := input.Validate(); errMap != nil {
		return domain.Fail(msgValidationErrors, errMap)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return domain.Fail(msgUnexpected, nil)
	}

	if account == nil {
		account = &domain.Account{
			Username: input.Email,
			Email:    input.Email,
			Role:     role,
		}
	}
	account.FirstName = input.FirstName
	account.LastName = input.LastName
	account.PasswordHash = hash
	account.Status = domain.StatusInactive
	account.Confirmed = true

	if account.ID == "" {
		err = s.accounts.Create(ctx, account)
	} else {
		err = s.accounts.Update(ctx, account)
	}
	if err != nil {
		if err == repository.ErrDuplicateActive {
			return domain.Fail(msgSaveError, map[string]string{"email": msgEmailRegistered})
		}
		s.logger.Error("account save failed", zap.Error(err))
		return domain.Fail(msgUnexpected, nil)
	}

	s.publish(ctx, events.EventAccountRegistered, account.Username, role,
		events.AccountRegisteredPayload{Email: account.Email, Status: account.Status})

	res := s.SendVerificationOTP(ctx, account.Username, account.FirstName)
	if !res.Success {
		return domain.Fail(msgOTPSendError, res.Message)
	}
	return res
}

// SendVerificationOTP issues a registration code and mails it to the subject.
func (s *IdentityService) SendVerificationOTP(ctx context.Context, username, firstName string) domain.Response {
	code, err := s.otp.Issue(ctx, username)
	if err != nil {
		s.logger.Error("otp issue failed", zap.String("username", username), zap.Error(err))
		return domain.Fail(msgUnexpected, nil)
	}

	body := firstName + "_" + strings.ToUpper("Your Verification OTP") + code
	res := s.mailer.Send(ctx, username, s.mailSubj, body)
	if !res.Success {
		return domain.Fail("verification mail not sent to : "+username, res.Message)
	}
	return domain.OK("verification mail sent to : "+username, nil)
}

// VerifyAccount flips a pending account to ACTIVE. When no pending record
// exists, an already-ACTIVE account for the same identity counts as an
// idempotent success. The method never propagates a failure: anything
// unexpected reports false.
func (s *IdentityService) VerifyAccount(ctx context.Context, username string, role domain.Role) bool {
	account, err := s.accounts.FindByUsernameRoleStatus(ctx, username, role, domain.StatusInactive)
	if err != nil {
		if err != pgx.ErrNoRows {
			s.logger.Error("verification lookup failed", zap.Error(err))
			return false
		}
		exists, err := s.accounts.ExistsActiveByIdentifier(ctx, username, role)
		if err != nil {
			s.logger.Error("verification fallback check failed", zap.Error(err))
			return false
		}
		return exists
	}

	account.Confirmed = true
	account.Status = domain.StatusActive
	if err := s.accounts.Update(ctx, account); err != nil {
		s.logger.Error("verification save failed", zap.Error(err))
		return false
	}

	s.publish(ctx, events.EventAccountVerified, username, role, nil)
	return true
}

// ConfirmRegistration consumes a registration OTP and activates the account.
func (s *IdentityService) ConfirmRegistration(ctx context.Context, username string, role domain.Role, code string) domain.Response {
	if username == "" || code == "" || role == "" {
		return domain.Fail(msgVerifyRequired, nil)
	}

	res := s.otp.Verify(ctx, code, domain.OTPPurposeRegistration, username)
	if !res.Success || !strings.EqualFold(res.Message, OTPMessageVerified) {
		return res
	}

	if !s.VerifyAccount(ctx, username, role) {
		return domain.Fail(msgVerificationError, nil)
	}
	if err := s.otp.Invalidate(ctx, domain.OTPPurposeRegistration, username); err != nil {
		s.logger.Warn("otp invalidation failed", zap.String("username", username), zap.Error(err))
	}
	return domain.OK(msgAccountVerified, nil)
}

// Login authenticates an ACTIVE account and issues a session token. The
// not-found and bad-credential outcomes stay distinct on purpose.
func (s *IdentityService) Login(ctx context.Context, username, password string, role domain.Role) domain.LoginResult {
	if username == "" {
		return domain.LoginFailure(username, msgLoginMissingUser)
	}
	if password == "" {
		return domain.LoginFailure(username, msgLoginMissingPass)
	}

	account, err := s.accounts.FindByUsernameRoleStatus(ctx, username, role, domain.StatusActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.LoginFailure(username, msgLoginNoUser)
		}
		s.logger.Error("login lookup failed", zap.Error(err))
		return domain.LoginFailure(username, msgUnexpected)
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return domain.LoginFailure(username, msgLoginBadPassword)
	}

	token, err := s.tokens.Generate(account)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return domain.LoginFailure(username, msgUnexpected)
	}

	s.publish(ctx, events.EventLoginSucceeded, account.Username, role, nil)

	return domain.LoginResult{
		Username:  account.Username,
		Token:     token,
		Success:   true,
		Message:   msgLoginSuccess,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		Role:      role,
	}
}

// Logout revokes the session token. Revocation is unconditional for any
// non-empty token: an invalid-looking token is blacklisted anyway, since
// blacklisting is idempotent and cheap. The principal comparison only marks
// whether the caller revoked their own session.
func (s *IdentityService) Logout(ctx context.Context, token, principal string) bool {
	if token == "" {
		return false
	}

	valid := s.tokens.Validate(token)
	selfInitiated := false
	if valid && principal != "" {
		if subject, err := s.tokens.Subject(token); err == nil && strings.EqualFold(subject, principal) {
			selfInitiated = true
		}
	}

	if err := s.blacklist.Add(ctx, token); err != nil {
		s.logger.Error("blacklist add failed", zap.Error(err))
	}

	s.publish(ctx, events.EventSessionRevoked, principal, "",
		events.SessionRevokedPayload{TokenValid: valid, SelfInitiate: selfInitiated})
	return true
}

// ForgotPassword starts a password reset: the replacement credential is
// checked against the policy, hashed, and embedded in a PASSWORD-tagged OTP
// so the clear text never reaches the challenge store.
func (s *IdentityService) ForgotPassword(ctx context.Context, username, newPassword string, role domain.Role) domain.Response {
	if username == "" || newPassword == "" || role == "" {
		return domain.Fail(msgFillRequired, map[string]string{"username": username, "role": string(role)})
	}

	if !auth.CheckPasswordPolicy(newPassword) {
		return domain.Fail(msgWrongPassword, auth.PolicyMessage)
	}

	account, err := s.accounts.FindByUsernameRoleStatus(ctx, username, role, domain.StatusActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Fail(msgForgotNoUser, nil)
		}
		s.logger.Error("reset lookup failed", zap.Error(err))
		return domain.Fail(msgUnexpected, nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return domain.Fail(msgUnexpected, nil)
	}

	code, err := s.otp.IssueWithPayload(ctx, domain.OTPPurposePassword, account.Username, hash)
	if err != nil {
		s.logger.Error("otp issue failed", zap.Error(err))
		return domain.Fail(msgUnexpected, nil)
	}

	body := account.FirstName + "_" + strings.ToUpper("Your password update otp") + code
	res := s.mailer.Send(ctx, account.Email, s.mailSubj, body)
	if !res.Success {
		return domain.Fail("otp verification mail not sent to: "+account.Email, res.Message)
	}

	s.publish(ctx, events.EventPasswordResetRequested, account.Username, role, nil)
	return domain.OK("otp verification mail sent to: "+account.Email, nil)
}

// VerifyAndUpdatePassword consumes a PASSWORD OTP and applies the pre-hashed
// credential from the challenge payload. Any verifier outcome other than a
// recognized VERIFIED passes through unchanged.
func (s *IdentityService) VerifyAndUpdatePassword(ctx context.Context, code, username string, role domain.Role) domain.Response {
	if code == "" || username == "" || role == "" {
		return domain.Fail(msgVerifyRequired, nil)
	}

	account, err := s.accounts.FindByUsernameRoleStatus(ctx, username, role, domain.StatusActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Fail(msgVerifyNoUser, nil)
		}
		s.logger.Error("reset verification lookup failed", zap.Error(err))
		return domain.Fail(msgUnexpected, nil)
	}

	res := s.otp.Verify(ctx, code, domain.OTPPurposePassword, account.Username)
	if !res.Success || !strings.EqualFold(res.Message, OTPMessageVerified) {
		return res
	}

	hash, ok := res.Data.(string)
	if !ok || hash == "" {
		s.logger.Error("otp payload missing on verified challenge", zap.String("username", username))
		return domain.Fail(msgUnexpected, nil)
	}

	account.PasswordHash = hash
	account.Confirmed = true
	if err := s.accounts.Update(ctx, account); err != nil {
		s.logger.Error("password update failed", zap.Error(err))
		return domain.Fail(msgUnexpected, nil)
	}

	if err := s.otp.Invalidate(ctx, domain.OTPPurposePassword, account.Username); err != nil {
		s.logger.Warn("otp invalidation failed", zap.String("username", username), zap.Error(err))
	}

	s.publish(ctx, events.EventPasswordChanged, account.Username, role, nil)
	return domain.OK(msgPasswordUpdated, nil)
}

func (s *IdentityService) publish(ctx context.Context, eventType events.EventType, username string, role domain.Role, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Username:  username,
		Role:      role,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
