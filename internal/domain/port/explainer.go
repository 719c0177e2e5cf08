//go:generate go run go.uber.org/mock/mockgen -source=explainer.go -destination=../../mocks/mock_explainer.go -package=mocks

package port

import (
	"context"
	"image"

	"pneumo-bot/internal/domain/entity"
)

// Explainer интерфейс внешней мультимодальной модели
type Explainer interface {
	// Name возвращает имя провайдера, например "gemini"
	Name() string

	// Explain запрашивает текстовое пояснение к снимку. Никогда не возвращает
	// ошибку: любой сбой превращается в ExplanationResult{Succeeded: false}
	Explain(ctx context.Context, img image.Image) entity.ExplanationResult
}
