package in

import (
	"context"

	"userservice/internal/user/domain"
)

// GetUserInput — входные данные для получения пользователя
type GetUserInput struct {
	UserID string
}

// GetUserUseCase — интерфейс use case получения пользователя по ID
type GetUserUseCase interface {
	Execute(ctx context.Context, input GetUserInput) (*domain.User, error)
}
