// Package bootstrap wires the process-wide runtime shared by the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"askme/internal/cache"
	"askme/internal/config"
	"askme/internal/database"
	"askme/internal/middleware"
	"askme/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipRedis leaves the cache disabled, for commands that only touch the database.
	SkipRedis bool
}

// InitRuntime connects to the database and Redis and ensures the development
// superuser. The Redis client is nil when Redis is unreachable or skipped.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	var r *redis.Client
	if !opts.SkipRedis {
		cache.InitRedis(cfg.RedisURL)
		r = cache.GetClient()
	}

	if err := ensureDevSuperuser(context.Background(), cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development superuser: %w", err)
	}

	return db, r, nil
}

// ensureDevSuperuser creates or promotes the configured superuser when
// APP_ENV=development and DEV_BOOTSTRAP_ROOT is set. Existing credentials are
// only overwritten with DEV_ROOT_FORCE_CREDENTIALS.
func ensureDevSuperuser(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapRoot {
		return nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = "admin"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevRootEmail))
	if email == "" {
		email = "admin@askme.local"
	}
	password := cfg.DevRootPassword
	if password == "" {
		return fmt.Errorf("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash root password: %w", err)
	}

	var rootID uint
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.User
		findErr := tx.Where("username = ?", username).First(&root).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			root = models.User{
				Username:    username,
				Email:       email,
				Password:    string(hashedPassword),
				IsActive:    true,
				IsStaff:     true,
				IsSuperuser: true,
			}
			if err := tx.Omit(clause.Associations).Create(&root).Error; err != nil {
				return err
			}
			if err := tx.Create(models.NewProfile(root.ID)).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			updates := map[string]any{"is_staff": true, "is_superuser": true, "is_active": true}
			if cfg.DevRootForceCredentials {
				updates["email"] = email
				updates["password"] = string(hashedPassword)
			}
			if err := tx.Model(&models.User{}).Where("id = ?", root.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		rootID = root.ID
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, rootID)
	middleware.Logger.InfoContext(ctx, "development superuser ensured",
		slog.Uint64("user_id", uint64(rootID)), slog.String("username", username))
	return nil
}
