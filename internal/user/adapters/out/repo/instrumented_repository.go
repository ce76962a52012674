package repo

import (
	"context"
	"errors"
	"time"

	"userservice/internal/user/application/ports/out"
	"userservice/internal/user/domain"
)

const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

// StoreObserver получает результат каждого вызова хранилища
type StoreObserver interface {
	ObserveStoreOp(op, outcome string, d time.Duration)
}

// InstrumentedRepository оборачивает UserRepository и отдает метрики по операциям
type InstrumentedRepository struct {
	next     out.UserRepository
	observer StoreObserver
}

func NewInstrumentedRepository(next out.UserRepository, observer StoreObserver) *InstrumentedRepository {
	return &InstrumentedRepository{next: next, observer: observer}
}

func (r *InstrumentedRepository) Create(ctx context.Context, fields domain.UserFields) (*domain.User, error) {
	start := time.Now()
	user, err := r.next.Create(ctx, fields)
	r.record("create", start, err)
	return user, err
}

func (r *InstrumentedRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	start := time.Now()
	users, err := r.next.FindAll(ctx)
	r.record("find_all", start, err)
	return users, err
}

func (r *InstrumentedRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	start := time.Now()
	user, err := r.next.FindByID(ctx, userID)
	r.record("find_by_id", start, err)
	return user, err
}

func (r *InstrumentedRepository) UpdateByID(ctx context.Context, userID string, fields domain.UserFields) (*domain.User, error) {
	start := time.Now()
	user, err := r.next.UpdateByID(ctx, userID, fields)
	r.record("update_by_id", start, err)
	return user, err
}

func (r *InstrumentedRepository) DeleteByID(ctx context.Context, userID string) (*domain.User, error) {
	start := time.Now()
	user, err := r.next.DeleteByID(ctx, userID)
	r.record("delete_by_id", start, err)
	return user, err
}

func (r *InstrumentedRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.next.Ping(ctx)
	r.record("ping", start, err)
	return err
}

func (r *InstrumentedRepository) record(op string, start time.Time, err error) {
	r.observer.ObserveStoreOp(op, outcome(err), time.Since(start))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrUserNotFound):
		return outcomeNotFound
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrEmailTaken):
		return outcomeInvalid
	default:
		return outcomeError
	}
}
