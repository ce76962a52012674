package db_conn

import (
	"context"
	"fmt"
	"time"

	"userservice/internal/shared/config"
	"userservice/internal/shared/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationName   = "user-service"
	connectTimeout    = 5 * time.Second
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 30 * time.Minute
	healthCheckPeriod = time.Minute
)

// PoolConfig разбирает DSN и накладывает лимиты пула; соединение не открывается
func PoolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	poolCfg.MaxConnLifetime = maxConnLifetime
	poolCfg.MaxConnIdleTime = maxConnIdleTime
	poolCfg.HealthCheckPeriod = healthCheckPeriod

	poolCfg.ConnConfig.ConnectTimeout = connectTimeout
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	return poolCfg, nil
}

// NewPool открывает пул и дожидается первого успешного ping
func NewPool(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	target := map[string]any{
		"host":      cfg.Host,
		"port":      cfg.Port,
		"database":  cfg.Database,
		"max_conns": poolCfg.MaxConns,
		"min_conns": poolCfg.MinConns,
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	started := time.Now()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Warn(logger.Entry{
			Action:     "db_ping_failed",
			Message:    "database is not reachable",
			Error:      &logger.ErrObj{Msg: err.Error()},
			Additional: target,
		})
		return nil, fmt.Errorf("ping %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
	}

	target["ping_ms"] = time.Since(started).Milliseconds()
	log.Info(logger.Entry{
		Action:     "db_connected",
		Message:    "database pool ready",
		Additional: target,
	})

	return pool, nil
}

// Close закрывает пул; nil допустим
func Close(pool *pgxpool.Pool, log *logger.Logger) {
	if pool == nil {
		return
	}
	stat := pool.Stat()
	pool.Close()
	log.Info(logger.Entry{
		Action:  "db_closed",
		Message: "database pool closed",
		Additional: map[string]any{
			"total_conns":    stat.TotalConns(),
			"acquired_conns": stat.AcquiredConns(),
		},
	})
}
