package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/middleware"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

// AuthHandler exposes login and session endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the auth routes. Login is public and goes through the
// limiter; the session routes require a verified token.
func (h *AuthHandler) Register(router fiber.Router, limiter fiber.Handler, jwt fiber.Handler) {
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	router.Post("/login", limiter, h.login)
	router.Get("/me", jwt, middleware.WithAuth(h.me, middleware.AuthOptions{Role: middleware.AuthRoleAny}))
	router.Post("/logout", jwt, middleware.WithAuth(h.logout, middleware.AuthOptions{Role: middleware.AuthRoleAny}))
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(requestContext(c), payload)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to sign in")
	}

	requestLogger(h.logger, c).Info().Uint("user_id", response.User.ID).Str("role", response.User.Role).Msg("user signed in")
	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	profile, err := h.service.Profile(requestContext(c), userIDFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load profile")
	}
	return utils.SendSuccess(c, "profile retrieved", profile)
}

// logout is stateless; clients discard the token.
func (h *AuthHandler) logout(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "logged out", nil)
}
