package usecase

import (
	"context"
	"fmt"

	"userservice/internal/shared/logger"
	"userservice/internal/user/application/ports/in"
	"userservice/internal/user/application/ports/out"
	"userservice/internal/user/domain"
)

// CreateUserService реализует CreateUserUseCase
type CreateUserService struct {
	userRepo out.UserRepository
	hasher   out.PasswordHasher
	log      *logger.Logger
}

// NewCreateUserService создает новый сервис создания пользователя
func NewCreateUserService(userRepo out.UserRepository, hasher out.PasswordHasher, log *logger.Logger) *CreateUserService {
	return &CreateUserService{
		userRepo: userRepo,
		hasher:   hasher,
		log:      log,
	}
}

// Execute создает нового пользователя
func (s *CreateUserService) Execute(ctx context.Context, input in.CreateUserInput) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "user.create", "")
	defer func() { endSpan(span, err) }()

	// Валидация схемы
	if err = domain.ValidateNew(input.Fields); err != nil {
		return nil, err
	}

	fields, err := hashPassword(s.hasher, input.Fields)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, fields)
	if err != nil {
		s.log.Warn(logger.Entry{
			Action:  "create_user_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:  "user_created",
		Message: fmt.Sprintf("user %s created", user.Email),
		Additional: map[string]any{
			"user_id": user.ID,
		},
	})

	return user, nil
}
