//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// resizeRGBA масштабирует изображение через OpenCV (INTER_LINEAR),
// так же как cv2.resize при обучении модели.
func resizeRGBA(img *image.RGBA, size int) (*image.RGBA, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(size, size), 0, 0, gocv.InterpolationLinear)

	out, err := resized.ToImage()
	if err != nil {
		return nil, err
	}
	if rgba, ok := out.(*image.RGBA); ok {
		return rgba, nil
	}
	return toRGB(out), nil
}
