package storage

import (
	"context"
	"sync"

	"vision-inspector/internal/domain/entity"
	"vision-inspector/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей
type MemoryUserRepository struct {
	mu               sync.RWMutex
	users            map[int64]*entity.User
	defaultThreshold float64
}

// NewMemoryUserRepository создаёт хранилище; новые пользователи получают defaultThreshold
func NewMemoryUserRepository(defaultThreshold float64) *MemoryUserRepository {
	return &MemoryUserRepository{
		users:            make(map[int64]*entity.User),
		defaultThreshold: defaultThreshold,
	}
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		copied := *user
		return &copied, nil
	}

	user := entity.NewUser(userID, chatID, r.defaultThreshold)
	r.users[userID] = user

	copied := *user
	return &copied, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	copied := *user

	r.mu.Lock()
	r.users[user.ID] = &copied
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние пользователя
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
