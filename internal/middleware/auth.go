// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"context"
	"strings"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Authenticator verifies access tokens. Implemented by auth.Service.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
// Failures are returned as errors for the app's error handler to render.
type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Handler validates the bearer token and stores the claims in Locals.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	claims, err := m.auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(utils.LocalsClaims, claims)
	c.Locals(utils.LocalsUserID, claims.UserID)
	return c.Next()
}

// bearerToken reads the Authorization header, falling back to the
// access_token cookie set on login.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if cookie := c.Cookies("access_token"); cookie != "" {
			return cookie, nil
		}
		return "", apperrors.ErrInvalidToken.WithMessage("Missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", apperrors.ErrInvalidToken.WithMessage("Invalid authorization format")
	}
	return strings.TrimPrefix(authHeader, "Bearer "), nil
}

// AdminOnly verifies that the request has admin claims.
func (m *AuthMiddleware) AdminOnly(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return err
	}
	if claims.Role != models.RoleAdmin {
		return apperrors.ErrAccessDenied.WithMessage("Insufficient permissions")
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func (m *AuthMiddleware) HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return err
		}
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return apperrors.ErrAccessDenied.WithMessage("Insufficient permissions")
	}
}
