//go:generate go run go.uber.org/mock/mockgen -source=user_repository.go -destination=../../mocks/mock_user_repository.go -package=mocks

package port

import (
	"context"

	"pneumo-bot/internal/domain/entity"
)

// UserRepository интерфейс хранилища состояний диалога
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// Update под одной блокировкой читает пользователя и применяет fn.
	// Изменения сохраняются, только если fn вернула true
	Update(ctx context.Context, userID, chatID int64, fn func(user *entity.User) bool) (*entity.User, bool, error)

	// Count возвращает число известных пользователей
	Count(ctx context.Context) (int, error)
}
