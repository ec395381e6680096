// Command admin_seed creates the first admin account and its wallet.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"vetopay/internal/config"
	applog "vetopay/internal/logger"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/repositories/cache"
	"vetopay/internal/services/wallet"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := applog.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	db, err := repositories.InitDB(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := repositories.NewStore(db, repositories.StoreOptions{LockTimeout: cfg.Transfer.LockTimeout})
	if _, err := store.Users().GetByEmail(ctx, adminEmail); err == nil {
		log.Info("admin user already exists", zap.String("email", adminEmail))
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		log.Fatal("failed to look up admin user", zap.Error(err))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}

	admin := &models.User{
		Email:        adminEmail,
		Password:     string(hashed),
		FirstName:    config.GetEnv("ADMIN_FIRST_NAME", "Platform"),
		LastName:     config.GetEnv("ADMIN_LAST_NAME", "Admin"),
		Phone:        os.Getenv("ADMIN_PHONE"),
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
		TokenVersion: 1,
	}

	wallets := wallet.NewService(store, cache.NewNoop(), wallet.WalletConfig{DefaultCurrency: cfg.DefaultCurrency}, nil, log)
	err = store.ExecuteInTransaction(ctx, func(uow repositories.Store) error {
		if err := uow.Users().Create(ctx, admin); err != nil {
			return err
		}
		_, err := wallets.CreateWallet(ctx, uow, admin.ID, cfg.DefaultCurrency)
		return err
	})
	if err != nil {
		log.Fatal("failed to create admin account", zap.Error(err))
	}

	log.Info("admin account created", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email))
}
