//go:generate go run go.uber.org/mock/mockgen -source=normalizer.go -destination=../../mocks/mock_normalizer.go -package=mocks

package port

import (
	"image"

	"pneumo-bot/internal/domain/entity"
)

// ImageNormalizer приводит загруженное изображение к входу классификатора
type ImageNormalizer interface {
	// Decode декодирует JPEG/PNG. Ошибка оборачивает entity.ErrInvalidImage
	Decode(data []byte) (image.Image, error)

	// Normalize строит тензор (1, 224, 224, 3) со значениями в [0,1]
	Normalize(img image.Image) (entity.Tensor, error)
}
