package out

import (
	"context"

	"userservice/internal/user/domain"
)

// UserRepository — интерфейс хранилища пользователей.
//
// Ошибки:
//   - domain.ErrUserNotFound: записи с таким id нет
//   - domain.ErrInvalidID: id не является UUID
//   - domain.ErrEmailTaken: нарушена уникальность email
//   - прочие ошибки: сбои инфраструктуры
type UserRepository interface {
	// Create сохраняет нового пользователя и возвращает запись с присвоенным id
	Create(ctx context.Context, fields domain.UserFields) (*domain.User, error)

	// FindAll возвращает всех пользователей
	FindAll(ctx context.Context) ([]*domain.User, error)

	// FindByID находит пользователя по ID
	FindByID(ctx context.Context, userID string) (*domain.User, error)

	// UpdateByID обновляет переданные поля и возвращает запись после обновления
	UpdateByID(ctx context.Context, userID string, fields domain.UserFields) (*domain.User, error)

	// DeleteByID удаляет пользователя и возвращает его последнее состояние
	DeleteByID(ctx context.Context, userID string) (*domain.User, error)

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error
}
