package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"userservice/internal/shared/logger"
	"userservice/internal/user/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation      = "23505"
	pgInvalidTextRepresent = "22P02"
	userColumns            = `id, name, email, password, created_at, updated_at`
)

// UserPgRepository — Postgres реализация UserRepository
type UserPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
	now  func() time.Time
}

// NewUserPgRepository создает новый репозиторий пользователей
func NewUserPgRepository(pool *pgxpool.Pool, log *logger.Logger) *UserPgRepository {
	return &UserPgRepository{
		pool: pool,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create создает нового пользователя
func (r *UserPgRepository) Create(ctx context.Context, fields domain.UserFields) (*domain.User, error) {
	var u domain.User
	fields.ApplyTo(&u)

	now := r.now()
	query := `
		INSERT INTO users (id, name, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, domain.NewID(), u.Name, u.Email, u.Password, now))
	if err != nil {
		return nil, translatePgError("insert user", err)
	}
	return user, nil
}

// FindAll возвращает всех пользователей в порядке создания
func (r *UserPgRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// FindByID находит пользователя по ID
func (r *UserPgRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	id, err := domain.ParseID(userID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translatePgError("query user by id", err)
	}
	return user, nil
}

// UpdateByID обновляет только переданные поля (NULL оставляет значение)
func (r *UserPgRepository) UpdateByID(ctx context.Context, userID string, fields domain.UserFields) (*domain.User, error) {
	id, err := domain.ParseID(userID)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE users
		SET name       = COALESCE($2, name),
		    email      = COALESCE($3, email),
		    password   = COALESCE($4, password),
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, fields.Name, fields.Email, fields.Password, r.now()))
	if err != nil {
		return nil, translatePgError("update user", err)
	}
	return user, nil
}

// DeleteByID удаляет пользователя (hard delete) и возвращает удаленную запись
func (r *UserPgRepository) DeleteByID(ctx context.Context, userID string) (*domain.User, error) {
	id, err := domain.ParseID(userID)
	if err != nil {
		return nil, err
	}

	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translatePgError("delete user", err)
	}
	return user, nil
}

// Ping проверяет соединение с БД
func (r *UserPgRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

// translatePgError переводит ошибки pgx в доменные
func translatePgError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.ErrEmailTaken
		case pgInvalidTextRepresent:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidID, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
