package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-service/internal/api/dto"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/service"
)

// IdentityHandler exposes the credential lifecycle endpoints. Workflow
// outcomes travel in the response envelope with HTTP 200; only malformed
// payloads surface as transport-level errors.
type IdentityHandler struct {
	identity *service.IdentityService
}

// NewIdentityHandler constructs handler.
func NewIdentityHandler(identity *service.IdentityService) *IdentityHandler {
	return &IdentityHandler{identity: identity}
}

// RegisterUser handles POST /auth/users/register.
func (h *IdentityHandler) RegisterUser(c *fiber.Ctx) error {
	return h.register(c, domain.RoleUser)
}

// RegisterAdmin handles POST /auth/admin/register.
func (h *IdentityHandler) RegisterAdmin(c *fiber.Ctx) error {
	return h.register(c, domain.RoleAdmin)
}

func (h *IdentityHandler) register(c *fiber.Ctx, role domain.Role) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(h.identity.Register(c.Context(), req.ToInput(), role))
}

// VerifyUser handles POST /auth/users/verify.
func (h *IdentityHandler) VerifyUser(c *fiber.Ctx) error {
	return h.verify(c, domain.RoleUser)
}

// VerifyAdmin handles POST /auth/admin/verify.
func (h *IdentityHandler) VerifyAdmin(c *fiber.Ctx) error {
	return h.verify(c, domain.RoleAdmin)
}

func (h *IdentityHandler) verify(c *fiber.Ctx, role domain.Role) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(h.identity.ConfirmRegistration(c.Context(), req.Username, role, req.OTP))
}

// LoginUser handles POST /auth/users/login.
func (h *IdentityHandler) LoginUser(c *fiber.Ctx) error {
	return h.login(c, domain.RoleUser)
}

// LoginAdmin handles POST /auth/admin/login.
func (h *IdentityHandler) LoginAdmin(c *fiber.Ctx) error {
	return h.login(c, domain.RoleAdmin)
}

func (h *IdentityHandler) login(c *fiber.Ctx, role domain.Role) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result := h.identity.Login(c.Context(), req.Username, req.Password, role)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnauthorized
	}
	return c.Status(status).JSON(result)
}

// ForgotPassword handles POST /auth/password/forgot.
func (h *IdentityHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	role, ok := dto.ParseRole(req.Role)
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "unknown role")
	}
	return c.JSON(h.identity.ForgotPassword(c.Context(), req.Username, req.Password, role))
}

// VerifyPassword handles POST /auth/password/verify.
func (h *IdentityHandler) VerifyPassword(c *fiber.Ctx) error {
	var req dto.VerifyPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	role, ok := dto.ParseRole(req.Role)
	if !ok {
		return fiber.NewError(http.StatusBadRequest, "unknown role")
	}
	return c.JSON(h.identity.VerifyAndUpdatePassword(c.Context(), req.OTP, req.Username, role))
}

// Me handles GET /auth/me.
func (h *IdentityHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Account == nil {
		return fiber.NewError(http.StatusUnauthorized, "not authenticated")
	}

	account := principal.Account
	return c.JSON(fiber.Map{
		"username":  account.Username,
		"email":     account.Email,
		"firstname": account.FirstName,
		"lastname":  account.LastName,
		"role":      account.Role,
		"status":    account.Status,
	})
}

// Logout handles POST /auth/logout. The route uses the lenient middleware so
// even an invalid bearer token can still be revoked.
func (h *IdentityHandler) Logout(c *fiber.Ctx) error {
	token, _ := auth.BearerTokenFromContext(c)

	principal := ""
	if p, ok := auth.PrincipalFromContext(c); ok {
		principal = p.Username
	}

	revoked := h.identity.Logout(c.Context(), token, principal)
	return c.JSON(fiber.Map{"success": revoked})
}
