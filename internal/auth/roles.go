package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/memberops/memberops-api/internal/domain"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

// RequireRole ensures the principal holds one of the allowed roles.
// With no roles listed any authenticated principal passes.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowed) > 0 && !principal.Role.In(allowed...) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireSupervisor admits Supervisor and Admin principals.
func RequireSupervisor() fiber.Handler {
	return RequireRole(domain.SupervisorRoles...)
}
