package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-portal/internal/domain"
	apperrors "github.com/spec-kit/billing-portal/pkg/util/errorutil"
)

var (
	// ErrMissingToken is returned when a protected route is called without a bearer token.
	ErrMissingToken = apperrors.NewDomainError(apperrors.CodeMissingToken, "No token provided", http.StatusUnauthorized, nil)
	// ErrInvalidToken is returned when the token signature or expiry check fails.
	ErrInvalidToken = apperrors.NewDomainError(apperrors.CodeInvalidToken, "Invalid token", http.StatusForbidden, nil)
	// ErrAdminRequired is returned when a non-admin calls an admin operation.
	ErrAdminRequired = apperrors.NewDomainError(apperrors.CodeForbidden, "Admin access required", http.StatusForbidden, nil)
	// ErrForbidden is returned for any other role mismatch.
	ErrForbidden = apperrors.NewDomainError(apperrors.CodeForbidden, "Insufficient role", http.StatusForbidden, nil)
)

// Authorize is the role policy applied before role-restricted operations.
func Authorize(claims *Claims, role domain.Role) error {
	if claims == nil {
		return ErrMissingToken
	}
	if claims.Role == role {
		return nil
	}
	if role == domain.RoleAdmin {
		return ErrAdminRequired
	}
	return ErrForbidden
}

// RequireRole ensures the authenticated caller carries role. It must run after AuthMiddleware.Handle.
func RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c)
		if err := Authorize(claims, role); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin is RequireRole(domain.RoleAdmin).
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
