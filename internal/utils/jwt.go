package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"vetopay/internal/config"
	"vetopay/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// TokenIssuer signs and verifies HS256 tokens. Access and refresh tokens use
// different secrets.
type TokenIssuer struct {
	cfg config.JWTConfig
	now func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// GenerateTokens generates an access token and a refresh token for the given user.
func (t *TokenIssuer) GenerateTokens(user *models.User) (TokenPair, error) {
	if t.cfg.Secret == "" || t.cfg.RefreshSecret == "" {
		return TokenPair{}, errors.New("JWT secrets not configured")
	}

	now := t.now()
	accessClaims := t.claims(user, TokenTypeAccess, now, t.cfg.AccessTTL)
	accessClaims.Permissions = models.GetDefaultPermissions(user.Role)
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(t.cfg.Secret))
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := t.claims(user, TokenTypeRefresh, now, t.cfg.RefreshTTL)
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(t.cfg.RefreshSecret))
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

func (t *TokenIssuer) claims(user *models.User, tokenType string, now time.Time, ttl time.Duration) *models.UserClaims {
	return &models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.cfg.Issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		TokenType:    tokenType,
	}
}

// ParseAccessToken validates an access token and returns its claims.
func (t *TokenIssuer) ParseAccessToken(tokenStr string) (*models.UserClaims, error) {
	return t.parse(tokenStr, t.cfg.Secret, TokenTypeAccess)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (t *TokenIssuer) ParseRefreshToken(tokenStr string) (*models.UserClaims, error) {
	return t.parse(tokenStr, t.cfg.RefreshSecret, TokenTypeRefresh)
}

func (t *TokenIssuer) parse(tokenStr, secret, tokenType string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("expected %s token, got %q", tokenType, claims.TokenType)
	}
	return claims, nil
}
