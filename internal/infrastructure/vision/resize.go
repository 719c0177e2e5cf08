//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"github.com/nfnt/resize"
)

// resizeRGBA масштабирует изображение до size×size билинейной интерполяцией.
func resizeRGBA(img *image.RGBA, size int) (*image.RGBA, error) {
	out := resize.Resize(uint(size), uint(size), img, resize.Bilinear)
	if rgba, ok := out.(*image.RGBA); ok {
		return rgba, nil
	}
	return toRGB(out), nil
}
