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

// ReplaceUserService реализует ReplaceUserUseCase (PUT)
type ReplaceUserService struct {
	userRepo out.UserRepository
	hasher   out.PasswordHasher
	log      *logger.Logger
}

// NewReplaceUserService создает сервис полного обновления пользователя
func NewReplaceUserService(userRepo out.UserRepository, hasher out.PasswordHasher, log *logger.Logger) *ReplaceUserService {
	return &ReplaceUserService{
		userRepo: userRepo,
		hasher:   hasher,
		log:      log,
	}
}

// Execute заменяет name, email и password пользователя
func (s *ReplaceUserService) Execute(ctx context.Context, input in.ReplaceUserInput) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "user.replace", input.UserID)
	defer func() { endSpan(span, err) }()

	if err = input.Validate(); err != nil {
		return nil, err
	}
	return updateUser(ctx, s.userRepo, s.hasher, s.log, input.UserID, input.Fields)
}

// updateUser — общий путь PUT и PATCH: схема, hasher, один вызов хранилища
func updateUser(
	ctx context.Context,
	repo out.UserRepository,
	hasher out.PasswordHasher,
	log *logger.Logger,
	userID string,
	fields domain.UserFields,
) (*domain.User, error) {
	if err := domain.ValidateChanges(fields); err != nil {
		return nil, err
	}

	fields, err := hashPassword(hasher, fields)
	if err != nil {
		return nil, err
	}

	user, err := repo.UpdateByID(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		log.Warn(logger.Entry{
			Action:  "update_user_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"user_id": userID,
			},
		})
		return nil, fmt.Errorf("update user: %w", err)
	}

	log.Info(logger.Entry{
		Action:  "user_updated",
		Message: fmt.Sprintf("user %s updated", user.ID),
		Additional: map[string]any{
			"user_id": user.ID,
			"fields":  fields.Count(),
		},
	})

	return user, nil
}
