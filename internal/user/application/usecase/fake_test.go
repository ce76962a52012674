package usecase

import (
	"context"

	"userservice/internal/user/domain"
)

// FakeUserRepository — заглушка хранилища; вызовы без XxxFunc паникуют
type FakeUserRepository struct {
	CreateFunc     func(ctx context.Context, fields domain.UserFields) (*domain.User, error)
	FindAllFunc    func(ctx context.Context) ([]*domain.User, error)
	FindByIDFunc   func(ctx context.Context, userID string) (*domain.User, error)
	UpdateByIDFunc func(ctx context.Context, userID string, fields domain.UserFields) (*domain.User, error)
	DeleteByIDFunc func(ctx context.Context, userID string) (*domain.User, error)

	calls int
}

func (f *FakeUserRepository) Create(ctx context.Context, fields domain.UserFields) (*domain.User, error) {
	f.calls++
	return f.CreateFunc(ctx, fields)
}

func (f *FakeUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	f.calls++
	return f.FindAllFunc(ctx)
}

func (f *FakeUserRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	f.calls++
	return f.FindByIDFunc(ctx, userID)
}

func (f *FakeUserRepository) UpdateByID(ctx context.Context, userID string, fields domain.UserFields) (*domain.User, error) {
	f.calls++
	return f.UpdateByIDFunc(ctx, userID, fields)
}

func (f *FakeUserRepository) DeleteByID(ctx context.Context, userID string) (*domain.User, error) {
	f.calls++
	return f.DeleteByIDFunc(ctx, userID)
}

func (f *FakeUserRepository) Ping(context.Context) error { return nil }

type FakeHasher struct {
	HashFunc func(password string) (string, error)
}

func (f *FakeHasher) Hash(password string) (string, error) {
	return f.HashFunc(password)
}

func strPtr(s string) *string { return &s }

func fullFields() domain.UserFields {
	return domain.UserFields{Name: strPtr("Ann"), Email: strPtr("ann@example.com"), Password: strPtr("secret")}
}
