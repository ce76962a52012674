package in

import (
	"context"

	"userservice/internal/user/domain"
)

// DeleteUserInput — входные данные для удаления пользователя
type DeleteUserInput struct {
	UserID string
}

// DeleteUserUseCase — интерфейс use case удаления пользователя
type DeleteUserUseCase interface {
	Execute(ctx context.Context, input DeleteUserInput) (*domain.User, error)
}
