package handlers

import (
	"errors"

	"tms/internal/apperror"
	"tms/internal/models"
	"tms/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler exposes login and registration as plain JSON endpoints for
// clients that do not speak GraphQL.
type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	payload, err := h.authService.Register(c.UserContext(), req.Username, req.Password, models.Role(req.Role))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payload)
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	payload, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(payload)
}

func (h *AuthHandler) fail(c *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	if errors.Is(appErr, apperror.ErrInternal) {
		h.log.Error("auth request failed", zap.String("path", c.Path()), zap.Error(err))
		appErr = apperror.ErrInternal
	}
	return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{
		"message": appErr.Message,
		"code":    appErr.Code,
	})
}
