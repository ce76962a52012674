package bootstrap

import (
	"context"
	"fmt"

	"userservice/internal/shared/config"
	db_conn "userservice/internal/shared/db"
	"userservice/internal/shared/logger"
)

// MigrationStatus — состояние схемы БД
type MigrationStatus struct {
	Applied []string
	Pending []string
}

// MigrateUp применяет все новые миграции и возвращает их имена
func MigrateUp(ctx context.Context, cfg config.DBConfig, log *logger.Logger) ([]string, error) {
	pool, err := db_conn.NewPool(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	defer db_conn.Close(pool, log)

	return db_conn.Migrate(ctx, pool, log)
}

// Status возвращает примененные и ожидающие миграции
func Status(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (MigrationStatus, error) {
	pool, err := db_conn.NewPool(ctx, cfg, log)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("connect postgres: %w", err)
	}
	defer db_conn.Close(pool, log)

	applied, err := db_conn.Applied(ctx, pool)
	if err != nil {
		return MigrationStatus{}, err
	}
	pending, err := db_conn.Pending(applied)
	if err != nil {
		return MigrationStatus{}, err
	}
	return MigrationStatus{Applied: applied, Pending: pending}, nil
}
