package in

import (
	"context"

	"userservice/internal/user/domain"
)

// ListUsersInput — параметров нет: возвращаются все пользователи
type ListUsersInput struct{}

// ListUsersOutput — результат получения списка
type ListUsersOutput struct {
	Users []*domain.User
	Count int
}

// ListUsersUseCase — интерфейс use case получения списка пользователей
type ListUsersUseCase interface {
	Execute(ctx context.Context, input ListUsersInput) (*ListUsersOutput, error)
}
