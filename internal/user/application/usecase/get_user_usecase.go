package usecase

import (
	"context"
	"errors"
	"fmt"

	"userservice/internal/shared/logger"
	"userservice/internal/user/application/ports/in"
	"userservice/internal/user/application/ports/out"
	"userservice/internal/user/domain"
)

// GetUserService реализует GetUserUseCase
type GetUserService struct {
	userRepo out.UserRepository
	log      *logger.Logger
}

// NewGetUserService создает новый сервис получения пользователя
func NewGetUserService(userRepo out.UserRepository, log *logger.Logger) *GetUserService {
	return &GetUserService{
		userRepo: userRepo,
		log:      log,
	}
}

// Execute находит пользователя по ID
func (s *GetUserService) Execute(ctx context.Context, input in.GetUserInput) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "user.get", input.UserID)
	defer func() { endSpan(span, err) }()

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.log.Error(logger.Entry{
			Action:  "get_user_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"user_id": input.UserID,
			},
		})
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}
