package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"userservice/internal/shared/config"
	db_conn "userservice/internal/shared/db"
	"userservice/internal/shared/logger"
	"userservice/internal/shared/metrics"
	"userservice/internal/user/adapters/in/transport"
	"userservice/internal/user/adapters/out/hasher"
	"userservice/internal/user/adapters/out/repo"
	"userservice/internal/user/application/ports/out"
	"userservice/internal/user/application/usecase"
)

const metricsNamespace = "user_service"

// Run запускает User Service и блокируется до отмены ctx или падения HTTP сервера
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	log.Info(logger.Entry{Action: "user_service_starting", Message: "initializing user service"})

	// 1. Хранилище
	userRepo, closeStore, err := NewStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// 2. Метрики
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(metricsNamespace)
		userRepo = repo.NewInstrumentedRepository(userRepo, m)
	}

	// 3. HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(cfg, userRepo, m, log),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info(logger.Entry{
			Action:  "http_server_starting",
			Message: fmt.Sprintf("listening on %s", addr),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем завершения контекста или ошибки сервера
	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		if ok {
			log.Error(logger.Entry{
				Action:  "http_server_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(logger.Entry{Action: "user_service_stopping", Message: "shutting down user service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info(logger.Entry{Action: "user_service_stopped", Message: "user service stopped gracefully"})
	return nil
}

// NewStore создает хранилище по store.driver; возвращаемая функция освобождает ресурсы
func NewStore(ctx context.Context, cfg config.Config, log *logger.Logger) (out.UserRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn(logger.Entry{
			Action:  "memory_store_selected",
			Message: "using in-memory store, data is lost on restart",
		})
		return repo.NewUserMemoryRepository(), func() {}, nil

	case config.StoreDriverPostgres:
		pool, err := db_conn.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if _, err := db_conn.Migrate(ctx, pool, log); err != nil {
				db_conn.Close(pool, log)
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return repo.NewUserPgRepository(pool, log), func() { db_conn.Close(pool, log) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewPasswordHasher выбирает hasher по security.hash_passwords
func NewPasswordHasher(cfg config.SecurityConfig) out.PasswordHasher {
	if cfg.HashPasswords {
		return hasher.NewBcryptHasher(cfg.BcryptCost)
	}
	return hasher.PlainHasher{}
}

// NewRouter собирает use cases, handler и middleware поверх userRepo.
// m может быть nil, тогда метрики не публикуются.
func NewRouter(cfg config.Config, userRepo out.UserRepository, m *metrics.Metrics, log *logger.Logger) http.Handler {
	pwHasher := NewPasswordHasher(cfg.Security)

	httpHandler := transport.NewHTTPHandler(transport.UseCases{
		Create:  usecase.NewCreateUserService(userRepo, pwHasher, log),
		List:    usecase.NewListUsersService(userRepo, log),
		Get:     usecase.NewGetUserService(userRepo, log),
		Replace: usecase.NewReplaceUserService(userRepo, pwHasher, log),
		Patch:   usecase.NewPatchUserService(userRepo, pwHasher, log),
		Delete:  usecase.NewDeleteUserService(userRepo, log),
	}, userRepo, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(transport.AccessLog(log))
	r.Use(middleware.Recoverer)
	if m != nil {
		r.Use(m.Middleware)
	}
	if cfg.RateLimit.RPS > 0 {
		limiter := transport.NewClientRateLimiter(
			rate.Limit(cfg.RateLimit.RPS), rateBurst(cfg.RateLimit), transport.DefaultClientIdleTTL,
		)
		r.Use(transport.RateLimit(limiter, log))
	}

	if m != nil {
		r.Handle(cfg.Metrics.Path, m.Handler())
	}
	httpHandler.RegisterRoutes(r)

	return r
}

// rateBurst — без явного burst допускаем не меньше одного запроса
func rateBurst(cfg config.RateLimitConfig) int {
	if cfg.Burst > 0 {
		return cfg.Burst
	}
	return int(math.Max(1, math.Ceil(cfg.RPS)))
}
