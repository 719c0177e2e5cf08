package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"

	"pneumo-bot/internal/domain/entity"
	"pneumo-bot/internal/domain/port"
)

// acceptedMIME: форматы, которые принимает загрузка.
var acceptedMIME = []string{"image/jpeg", "image/png"}

// Normalizer приводит снимок к входу классификатора.
// Интерполяция зависит от сборки: nfnt/resize по умолчанию, OpenCV с тегом gocv.
type Normalizer struct {
	Size int
}

// NewNormalizer создаёт нормализатор под вход 224×224.
func NewNormalizer() *Normalizer {
	return &Normalizer{Size: entity.InputSize}
}

// Decode проверяет тип содержимого и декодирует изображение.
func (n *Normalizer) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", entity.ErrInvalidImage)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), acceptedMIME...) {
		return nil, fmt.Errorf("%w: unsupported format %s, expected JPEG or PNG", entity.ErrInvalidImage, mt.String())
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: zero area", entity.ErrInvalidImage)
	}

	return img, nil
}

// Normalize строит тензор (1, Size, Size, 3): RGB без альфы, масштаб Size×Size,
// значения 0–255 переводятся в [0,1].
func (n *Normalizer) Normalize(img image.Image) (entity.Tensor, error) {
	if img == nil || img.Bounds().Empty() {
		return entity.Tensor{}, fmt.Errorf("%w: zero area", entity.ErrInvalidImage)
	}

	rgb := toRGB(img)
	resized, err := resizeRGBA(rgb, n.Size)
	if err != nil {
		return entity.Tensor{}, fmt.Errorf("resize: %w", err)
	}

	tensor := entity.Tensor{
		Shape: [4]int64{1, int64(n.Size), int64(n.Size), entity.InputChannels},
		Data:  make([]float32, n.Size*n.Size*entity.InputChannels),
	}

	b := resized.Bounds()
	for y := 0; y < n.Size; y++ {
		for x := 0; x < n.Size; x++ {
			c := resized.RGBAAt(b.Min.X+x, b.Min.Y+y)
			tensor.Set(x, y, 0, float32(c.R)/255.0)
			tensor.Set(x, y, 1, float32(c.G)/255.0)
			tensor.Set(x, y, 2, float32(c.B)/255.0)
		}
	}

	return tensor, nil
}

// toRGB копирует изображение в *image.RGBA с альфой 255.
// Альфа отбрасывается, цвет остаётся без предумножения.
func toRGB(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}

// Проверка реализации интерфейса
var _ port.ImageNormalizer = (*Normalizer)(nil)
