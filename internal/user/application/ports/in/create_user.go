package in

import (
	"context"

	"userservice/internal/user/domain"
)

// CreateUserInput — входные данные для создания пользователя
type CreateUserInput struct {
	Fields domain.UserFields
}

// CreateUserUseCase — интерфейс use case создания пользователя
type CreateUserUseCase interface {
	Execute(ctx context.Context, input CreateUserInput) (*domain.User, error)
}
