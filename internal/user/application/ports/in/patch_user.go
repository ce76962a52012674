package in

import (
	"context"

	"userservice/internal/user/domain"
)

// PatchUserInput — входные данные для частичного обновления (PATCH)
type PatchUserInput struct {
	UserID string
	Fields domain.UserFields
}

// Validate требует хотя бы одно допустимое поле
func (i PatchUserInput) Validate() error {
	if i.Fields.IsEmpty() {
		return domain.ErrNoUpdateFields
	}
	return nil
}

// PatchUserUseCase — интерфейс use case частичного обновления пользователя
type PatchUserUseCase interface {
	Execute(ctx context.Context, input PatchUserInput) (*domain.User, error)
}
