package repo

import (
	"context"
	"sync"
	"time"

	"userservice/internal/user/domain"
)

// UserMemoryRepository — in-memory реализация UserRepository.
// Используется драйвером memory и в тестах.
type UserMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	order []string // порядок создания
	now   func() time.Time
}

// NewUserMemoryRepository создает пустое хранилище
func NewUserMemoryRepository() *UserMemoryRepository {
	return &UserMemoryRepository{
		users: make(map[string]*domain.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserMemoryRepository) Create(_ context.Context, fields domain.UserFields) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var u domain.User
	fields.ApplyTo(&u)
	if r.emailTakenLocked(u.Email, "") {
		return nil, domain.ErrEmailTaken
	}

	now := r.now()
	u.ID = domain.NewID()
	u.CreatedAt = now
	u.UpdatedAt = now

	r.users[u.ID] = &u
	r.order = append(r.order, u.ID)
	return u.Clone(), nil
}

func (r *UserMemoryRepository) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id].Clone())
	}
	return users, nil
}

func (r *UserMemoryRepository) FindByID(_ context.Context, userID string) (*domain.User, error) {
	id, err := domain.ParseID(userID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *UserMemoryRepository) UpdateByID(_ context.Context, userID string, fields domain.UserFields) (*domain.User, error) {
	id, err := domain.ParseID(userID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if fields.Email != nil && r.emailTakenLocked(*fields.Email, id) {
		return nil, domain.ErrEmailTaken
	}

	fields.ApplyTo(u)
	u.UpdatedAt = r.now()
	return u.Clone(), nil
}

func (r *UserMemoryRepository) DeleteByID(_ context.Context, userID string) (*domain.User, error) {
	id, err := domain.ParseID(userID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return u, nil
}

// Ping всегда успешен
func (r *UserMemoryRepository) Ping(_ context.Context) error {
	return nil
}

func (r *UserMemoryRepository) emailTakenLocked(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
