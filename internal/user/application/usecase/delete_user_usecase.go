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

// DeleteUserService реализует DeleteUserUseCase
type DeleteUserService struct {
	userRepo out.UserRepository
	log      *logger.Logger
}

// NewDeleteUserService создает сервис удаления пользователя
func NewDeleteUserService(userRepo out.UserRepository, log *logger.Logger) *DeleteUserService {
	return &DeleteUserService{
		userRepo: userRepo,
		log:      log,
	}
}

// Execute удаляет пользователя (hard delete) и возвращает удаленную запись
func (s *DeleteUserService) Execute(ctx context.Context, input in.DeleteUserInput) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "user.delete", input.UserID)
	defer func() { endSpan(span, err) }()

	user, err := s.userRepo.DeleteByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.log.Error(logger.Entry{
			Action:  "delete_user_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"user_id": input.UserID,
			},
		})
		return nil, fmt.Errorf("delete user: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:  "user_deleted",
		Message: fmt.Sprintf("user %s deleted", user.ID),
		Additional: map[string]any{
			"user_id": user.ID,
		},
	})

	return user, nil
}
