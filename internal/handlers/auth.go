package handlers

import (
	"strings"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/services/auth"
	"vetopay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

type AuthHandler struct {
	authService  auth.Service
	secureCookie bool
}

func NewAuthHandler(authService auth.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation(apperrors.FieldError{Field: "body", Message: "invalid request body"})
	}

	result, err := h.authService.Register(c.UserContext(), input, utils.RequestMeta(c))
	if err != nil {
		return err
	}
	h.setAuthCookies(c, result.Tokens)
	return utils.Created(c, result)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.UserContext(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return err
	}
	h.setAuthCookies(c, result.Tokens)
	return utils.Success(c, result)
}

// RefreshToken handles POST /api/auth/refresh. The token comes from the
// cookie or, failing that, the body.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
			return apperrors.ErrInvalidToken.WithMessage("Refresh token not provided")
		}
		token = input.RefreshToken
	}

	tokens, err := h.authService.RefreshTokens(c.UserContext(), token)
	if err != nil {
		return err
	}
	h.setAuthCookies(c, tokens)
	return utils.Success(c, tokens)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.UserContext(), userID); err != nil {
		return err
	}

	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{accessCookie, refreshCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   h.secureCookie,
			Path:     "/",
		})
	}
	return utils.Message(c, "Logged out successfully")
}

// ChangePassword handles POST /api/users/me/password. Other sessions are
// signed out; the caller gets new cookies.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	var input auth.ChangePasswordInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	tokens, err := h.authService.ChangePassword(c.UserContext(), userID, input, utils.RequestMeta(c))
	if err != nil {
		return err
	}
	h.setAuthCookies(c, tokens)
	return utils.Success(c, tokens)
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, tokens utils.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     accessCookie,
		Value:    tokens.AccessToken,
		Expires:  time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Strict",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    tokens.RefreshToken,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Strict",
		Path:     "/api/auth",
	})
}
