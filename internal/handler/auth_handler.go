package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-retail-store/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if req.Login == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Login and password are required"})
	}

	response, err := h.authService.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}

// ChangePassword handles a password change by the logged-in user
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if err := h.authService.ChangePassword(c.UserContext(), actor, req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.authService.Heartbeat(c.UserContext(), actor); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Heartbeat received", "status": "online"})
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateToken handles JWT token validation
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token is required"})
	}

	response, err := h.authService.ValidateToken(c.UserContext(), req.Token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(response)
}
