package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

const (
	principalKey   = "auth_principal"
	bearerTokenKey = "auth_bearer_token"
)

// Principal represents the authenticated caller.
type Principal struct {
	Username string
	Role     domain.Role
	Account  *domain.Account
}

// AuthMiddleware validates bearer tokens against the blacklist and loads the
// calling account.
type AuthMiddleware struct {
	tokens    *TokenManager
	blacklist *RedisBlacklist
	accounts  repository.AccountRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, blacklist *RedisBlacklist, accounts repository.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, blacklist: blacklist, accounts: accounts}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("missing or invalid authorization header")
	}

	if revoked, err := m.blacklist.Contains(c.Context(), token); err != nil {
		return apperrors.MapError(err)
	} else if revoked {
		return apperrors.NewUnauthorized("token revoked")
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	account, err := m.accounts.FindByUsernameRoleStatus(c.Context(), claims.Username, claims.Role, domain.StatusActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(bearerTokenKey, token)
	c.Locals(principalKey, &Principal{Username: account.Username, Role: account.Role, Account: account})
	return c.Next()
}

// Attach is the lenient variant: it records the bearer token and, when the
// token parses, the principal, but never rejects the request. Logout relies
// on it so that invalid tokens can still be revoked.
func (m *AuthMiddleware) Attach(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return c.Next()
	}

	c.Locals(bearerTokenKey, token)
	if claims, err := m.tokens.Parse(token); err == nil {
		c.Locals(principalKey, &Principal{Username: claims.Username, Role: claims.Role})
	}
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// BearerTokenFromContext retrieves the raw bearer token, if one was sent.
func BearerTokenFromContext(c *fiber.Ctx) (string, bool) {
	val, ok := c.Locals(bearerTokenKey).(string)
	return val, ok && val != ""
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
