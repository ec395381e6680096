package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/services/audit"
	"vetopay/internal/services/email"
	"vetopay/internal/utils"
	"vetopay/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput, meta models.RequestMeta) (*Result, error)
	Login(ctx context.Context, email, password string) (*Result, error)
	RefreshTokens(ctx context.Context, refreshToken string) (utils.TokenPair, error)
	Logout(ctx context.Context, userID uint) error

	// ChangePassword signs out every other session and returns a fresh
	// token pair for the caller.
	ChangePassword(ctx context.Context, userID uint, input ChangePasswordInput, meta models.RequestMeta) (utils.TokenPair, error)

	// Authenticate verifies an access token against the user's current
	// status and token version.
	Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error)
}

// RegisterInput is a new account request.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Currency  string `json:"currency" validate:"omitempty,len=3"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// Result is returned on register and login.
type Result struct {
	User   *models.User    `json:"user"`
	Tokens utils.TokenPair `json:"tokens"`
}

// WalletCreator opens the wallet of a new user.
type WalletCreator interface {
	CreateWallet(ctx context.Context, uow repositories.Store, userID uint, currency string) (*models.Wallet, error)
}

type Auditor interface {
	RecordIn(ctx context.Context, uow repositories.Store, e audit.Entry) error
}

type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

// UserCache caches users for token checks.
type UserCache interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	CacheUser(ctx context.Context, user *models.User) error
	InvalidateUser(ctx context.Context, userID uint) error
}

type Config struct {
	BcryptCost int
}

type service struct {
	store   repositories.Store
	wallets WalletCreator
	tokens  *utils.TokenIssuer
	cache   UserCache
	auditor Auditor
	mailer  Mailer
	config  Config
	log     *zap.Logger
	now     func() time.Time
}

func NewService(
	store repositories.Store,
	wallets WalletCreator,
	tokens *utils.TokenIssuer,
	cache UserCache,
	auditor Auditor,
	mailer Mailer,
	config Config,
	log *zap.Logger,
) Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		store:   store,
		wallets: wallets,
		tokens:  tokens,
		cache:   cache,
		auditor: auditor,
		mailer:  mailer,
		config:  config,
		log:     log.Named("auth"),
		now:     time.Now,
	}
}

// Register creates the user and an empty ACTIVE wallet in one unit of work.
func (s *service) Register(ctx context.Context, input RegisterInput, meta models.RequestMeta) (*Result, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.config.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Email:     input.Email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Role:      models.RoleUser,
		Status:    models.UserStatusActive,
	}

	err = s.store.ExecuteInTransaction(ctx, func(uow repositories.Store) error {
		if err := uow.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrEmailTaken) {
				return apperrors.ErrEmailTaken
			}
			return err
		}
		wallet, err := s.wallets.CreateWallet(ctx, uow, user.ID, input.Currency)
		if err != nil {
			return err
		}
		user.Wallet = wallet
		return s.auditor.RecordIn(ctx, uow, audit.Entry{
			UserID:   user.ID,
			Action:   models.AuditUserRegistered,
			Entity:   "User",
			EntityID: strconv.FormatUint(uint64(user.ID), 10),
			Metadata: models.JSON{"email": user.Email, "currency": wallet.Currency},
			Meta:     meta,
		})
	})
	if err != nil {
		return nil, boundary(err)
	}

	if err := s.mailer.Send(ctx, email.Welcome(user)); err != nil {
		s.log.Warn("welcome email not queued", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID))

	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Result{User: user, Tokens: tokens}, nil
}

func (s *service) Login(ctx context.Context, emailAddr, password string) (*Result, error) {
	user, err := s.store.Users().GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.log.Info("login failed: unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Info("login failed: incorrect password", zap.Uint("user_id", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrAccountSuspended
	}

	now := s.now()
	if err := s.store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Result{User: user, Tokens: tokens}, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (utils.TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return utils.TokenPair{}, apperrors.ErrInvalidToken
	}
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return utils.TokenPair{}, err
	}
	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return utils.TokenPair{}, apperrors.Internal(err)
	}
	return tokens, nil
}

// Logout invalidates every token issued to userID so far.
func (s *service) Logout(ctx context.Context, userID uint) error {
	if err := s.store.Users().IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Internal(err)
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.Warn("user cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, userID uint, input ChangePasswordInput, meta models.RequestMeta) (utils.TokenPair, error) {
	if err := validation.Struct(input); err != nil {
		return utils.TokenPair{}, err
	}
	v := validation.New()
	v.Password("newPassword", input.NewPassword)
	v.Check(input.NewPassword != input.CurrentPassword, "newPassword", "must differ from the current password")
	if err := v.Err(); err != nil {
		return utils.TokenPair{}, err
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.TokenPair{}, apperrors.ErrUserNotFound
		}
		return utils.TokenPair{}, apperrors.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		s.log.Info("password change rejected: incorrect password", zap.Uint("user_id", userID))
		return utils.TokenPair{}, apperrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.config.BcryptCost)
	if err != nil {
		return utils.TokenPair{}, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	err = s.store.ExecuteInTransaction(ctx, func(uow repositories.Store) error {
		if err := uow.Users().UpdatePassword(ctx, userID, string(hashed)); err != nil {
			return err
		}
		return s.auditor.RecordIn(ctx, uow, audit.Entry{
			UserID:   userID,
			Action:   models.AuditPasswordChanged,
			Entity:   "User",
			EntityID: strconv.FormatUint(uint64(userID), 10),
			Meta:     meta,
		})
	})
	if err != nil {
		return utils.TokenPair{}, boundary(err)
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.Warn("user cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}

	user.Password = string(hashed)
	user.TokenVersion++
	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return utils.TokenPair{}, apperrors.Internal(err)
	}
	s.log.Info("password changed", zap.Uint("user_id", userID))
	return tokens, nil
}

func (s *service) Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error) {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if _, err := s.currentUser(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// currentUser loads the token's user and checks the token is still valid for
// them.
func (s *service) currentUser(ctx context.Context, claims *models.UserClaims) (*models.User, error) {
	user, err := s.cache.GetUser(ctx, claims.UserID)
	if err != nil {
		s.log.Warn("user cache read failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
	}
	if user == nil {
		user, err = s.store.Users().GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.ErrInvalidToken
			}
			return nil, apperrors.Internal(err)
		}
		if err := s.cache.CacheUser(ctx, user); err != nil {
			s.log.Warn("user cache write failed", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, apperrors.ErrInvalidToken.WithMessage("Session expired")
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrAccountSuspended
	}
	return user, nil
}

func validateRegistration(input RegisterInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}
	v := validation.New()
	v.Password("password", input.Password)
	v.MinLength("firstName", strings.TrimSpace(input.FirstName), validation.MinNameLength)
	v.MinLength("lastName", strings.TrimSpace(input.LastName), validation.MinNameLength)
	return v.Err()
}

func boundary(err error) error {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return err
	}
	return apperrors.Internal(err)
}
