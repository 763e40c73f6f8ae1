package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"askme/internal/config"
	"askme/internal/middleware"

	"gorm.io/gorm"
)

// SchemaStatus reports which managed tables exist and whether AutoMigrate would run.
type SchemaStatus struct {
	Environment        string   `yaml:"environment"`
	Driver             string   `yaml:"driver"`
	WillRunAutoMigrate bool     `yaml:"auto_migrate_on_start"`
	Present            []string `yaml:"present"`
	Missing            []string `yaml:"missing"`
}

func isProdLikeEnv(env string) bool {
	e := strings.ToLower(strings.TrimSpace(env))
	return e == "production" || e == "prod" || e == "staging" || e == "stage"
}

func runAutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema runs AutoMigrate outside production-like environments.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if isProdLikeEnv(cfg.Env) {
		return nil
	}
	middleware.Logger.InfoContext(ctx, "Running GORM AutoMigrate", slog.String("env", cfg.Env))
	if err := runAutoMigrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Migrate runs AutoMigrate unconditionally.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := runAutoMigrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// GetSchemaStatus inspects the live schema for every managed table.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	status := &SchemaStatus{
		Environment:        cfg.Env,
		Driver:             db.Dialector.Name(),
		WillRunAutoMigrate: !isProdLikeEnv(cfg.Env),
	}

	migrator := db.WithContext(ctx).Migrator()
	for _, m := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", m, err)
		}
		table := stmt.Schema.Table
		if migrator.HasTable(m) {
			status.Present = append(status.Present, table)
		} else {
			status.Missing = append(status.Missing, table)
		}
	}
	return status, nil
}
