package usecase

import (
	"context"

	"userservice/internal/shared/logger"
	"userservice/internal/user/application/ports/in"
	"userservice/internal/user/application/ports/out"
	"userservice/internal/user/domain"
)

// PatchUserService реализует PatchUserUseCase (PATCH)
type PatchUserService struct {
	userRepo out.UserRepository
	hasher   out.PasswordHasher
	log      *logger.Logger
}

// NewPatchUserService создает сервис частичного обновления пользователя
func NewPatchUserService(userRepo out.UserRepository, hasher out.PasswordHasher, log *logger.Logger) *PatchUserService {
	return &PatchUserService{
		userRepo: userRepo,
		hasher:   hasher,
		log:      log,
	}
}

// Execute обновляет только переданные поля
func (s *PatchUserService) Execute(ctx context.Context, input in.PatchUserInput) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "user.patch", input.UserID)
	defer func() { endSpan(span, err) }()

	if err = input.Validate(); err != nil {
		return nil, err
	}
	return updateUser(ctx, s.userRepo, s.hasher, s.log, input.UserID, input.Fields)
}
