package usecase

import (
	"context"
	"fmt"

	"userservice/internal/shared/logger"
	"userservice/internal/user/application/ports/in"
	"userservice/internal/user/application/ports/out"
	"userservice/internal/user/domain"
)

// ListUsersService реализует ListUsersUseCase
type ListUsersService struct {
	userRepo out.UserRepository
	log      *logger.Logger
}

// NewListUsersService создает новый сервис получения списка пользователей
func NewListUsersService(userRepo out.UserRepository, log *logger.Logger) *ListUsersService {
	return &ListUsersService{
		userRepo: userRepo,
		log:      log,
	}
}

// Execute возвращает всех пользователей без фильтров и пагинации
func (s *ListUsersService) Execute(ctx context.Context, _ in.ListUsersInput) (_ *in.ListUsersOutput, err error) {
	ctx, span := startSpan(ctx, "user.list", "")
	defer func() { endSpan(span, err) }()

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		s.log.Error(logger.Entry{
			Action:  "list_users_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = make([]*domain.User, 0)
	}

	return &in.ListUsersOutput{
		Users: users,
		Count: len(users),
	}, nil
}
