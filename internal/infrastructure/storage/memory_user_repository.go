package storage

import (
	"context"
	"sync"

	"pneumo-bot/internal/domain/entity"
	"pneumo-bot/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище состояний диалога.
// Отчёты здесь не хранятся, только состояние чата
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
	}
}

// Get возвращает копию пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}

	cp := *user
	return &cp, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cp := *user
	r.mu.Lock()
	r.users[user.ID] = &cp
	r.mu.Unlock()

	return nil
}

// Update атомарно применяет fn к пользователю. Проверка и смена состояния
// идут под одной блокировкой, поэтому два параллельных сообщения не пройдут обе
func (r *MemoryUserRepository) Update(ctx context.Context, userID, chatID int64, fn func(user *entity.User) bool) (*entity.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}

	cp := *user
	if !fn(&cp) {
		return &cp, false, nil
	}

	stored := cp
	r.users[userID] = &stored
	return &cp, true, nil
}

// Count возвращает число известных пользователей
func (r *MemoryUserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users), nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
