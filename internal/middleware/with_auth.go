package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

// Auth role constants used by WithAuth helper.
const (
	AuthRoleAny     = "any"
	AuthRoleStaff   = "staff"
	AuthRoleStudent = "student"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role           string
	AllowAnonymous bool
}

// WithAuth wraps a handler with authentication/authorization guards. Student
// handlers additionally require the student_id claim.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := strings.ToLower(strings.TrimSpace(opts.Role))
	if role == "" {
		role = AuthRoleAny
	}

	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id")
		if userID == nil {
			if role == AuthRoleAny && opts.AllowAnonymous {
				return handler(c)
			}
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		if role == AuthRoleAny {
			return handler(c)
		}

		currentRole := normalizeRoleValue(c.Locals("user_role"))
		if currentRole != role {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
		}

		if role == AuthRoleStudent && c.Locals("student_id") == nil {
			return utils.Fail(c, fiber.StatusForbidden, "student profile missing", nil)
		}

		return handler(c)
	}
}
