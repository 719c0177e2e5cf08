//go:generate go run go.uber.org/mock/mockgen -source=classifier.go -destination=../../mocks/mock_classifier.go -package=mocks

package port

import (
	"context"

	"pneumo-bot/internal/domain/entity"
)

// Classifier интерфейс загруженной модели. Реализация только читает модель,
// поэтому Predict можно вызывать конкурентно
type Classifier interface {
	// Predict выполняет один прямой проход и возвращает softmax-выход
	Predict(ctx context.Context, tensor entity.Tensor) (entity.ScoreVector, error)
}
