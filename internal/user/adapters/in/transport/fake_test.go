package transport

import (
	"context"

	"userservice/internal/user/adapters/out/repo"
	"userservice/internal/user/application/ports/in"
	"userservice/internal/user/domain"
)

// fakeRepository работает поверх memory store; заданные XxxFunc перекрывают его
type fakeRepository struct {
	*repo.UserMemoryRepository

	FindAllFunc    func(ctx context.Context) ([]*domain.User, error)
	DeleteByIDFunc func(ctx context.Context, userID string) (*domain.User, error)
	PingFunc       func(ctx context.Context) error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{UserMemoryRepository: repo.NewUserMemoryRepository()}
}

func (f *fakeRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	if f.FindAllFunc != nil {
		return f.FindAllFunc(ctx)
	}
	return f.UserMemoryRepository.FindAll(ctx)
}

func (f *fakeRepository) DeleteByID(ctx context.Context, userID string) (*domain.User, error) {
	if f.DeleteByIDFunc != nil {
		return f.DeleteByIDFunc(ctx, userID)
	}
	return f.UserMemoryRepository.DeleteByID(ctx, userID)
}

func (f *fakeRepository) Ping(ctx context.Context) error {
	if f.PingFunc != nil {
		return f.PingFunc(ctx)
	}
	return f.UserMemoryRepository.Ping(ctx)
}

// fakeReplaceUseCase позволяет вернуть ошибку, недостижимую через реальный use case
type fakeReplaceUseCase struct {
	ExecuteFunc func(ctx context.Context, input in.ReplaceUserInput) (*domain.User, error)
}

func (f *fakeReplaceUseCase) Execute(ctx context.Context, input in.ReplaceUserInput) (*domain.User, error) {
	return f.ExecuteFunc(ctx, input)
}
