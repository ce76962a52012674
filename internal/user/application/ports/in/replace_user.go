package in

import (
	"context"

	"userservice/internal/user/domain"
)

// ReplaceFieldCount — PUT принимает ровно столько полей
const ReplaceFieldCount = 3

// ReplaceUserInput — входные данные для полной замены (PUT)
type ReplaceUserInput struct {
	UserID string
	Fields domain.UserFields
}

// Validate проверяет, что переданы ровно name, email и password
func (i ReplaceUserInput) Validate() error {
	switch n := i.Fields.Count(); {
	case n < ReplaceFieldCount:
		return domain.ErrIncompleteReplace
	case n > ReplaceFieldCount:
		return domain.ErrTooManyFields
	}
	return nil
}

// ReplaceUserUseCase — интерфейс use case полного обновления пользователя
type ReplaceUserUseCase interface {
	Execute(ctx context.Context, input ReplaceUserInput) (*domain.User, error)
}
