package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"exam_portal/internal/domain"
	"exam_portal/internal/dto"
	"exam_portal/internal/helper"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// cookie first, Authorization header as fallback
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		ctx.Locals("userID", user.UserID)
		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// RequireRole gates a route group on the role carried in the JWT. Roles
// are fixed at provisioning, so no store lookup is needed here.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, ok := ctx.Locals("user").(dto.AuthClaims)
		if !ok || user.UserID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		for _, role := range roles {
			if domain.Role(user.Role) == role {
				return ctx.Next()
			}
		}

		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "forbidden",
		})
	}
}

func StudentOnly() fiber.Handler  { return RequireRole(domain.RoleStudent) }
func OfficerOnly() fiber.Handler  { return RequireRole(domain.RoleOfficer) }
func LecturerOnly() fiber.Handler { return RequireRole(domain.RoleLecturer) }
func AdminOnly() fiber.Handler    { return RequireRole(domain.RoleAdmin) }
