package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"pneumo-bot/internal/domain/entity"
)

func noiseImage(w, h int, seed int64) *image.NRGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(rnd.Intn(256)),
				G: uint8(rnd.Intn(256)),
				B: uint8(rnd.Intn(256)),
				A: uint8(rnd.Intn(256)),
			})
		}
	}
	return img
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func requireValidTensor(t *testing.T, tensor entity.Tensor) {
	t.Helper()
	require.Equal(t, [4]int64{1, 224, 224, 3}, tensor.Shape)
	require.Len(t, tensor.Data, 224*224*3)
	for i, v := range tensor.Data {
		if v < 0 || v > 1 {
			require.Failf(t, "value out of range", "index %d: %v", i, v)
		}
	}
}

func TestNormalizer_DecodeAndNormalize(t *testing.T) {
	n := NewNormalizer()

	sizes := [][2]int{{224, 224}, {640, 480}, {31, 97}, {1, 1}}
	for _, sz := range sizes {
		src := noiseImage(sz[0], sz[1], int64(sz[0]*sz[1]))

		for name, data := range map[string][]byte{
			"png":  encodePNG(t, src),
			"jpeg": encodeJPEG(t, src),
		} {
			img, err := n.Decode(data)
			require.NoError(t, err, name)
			require.Equal(t, sz[0], img.Bounds().Dx())

			tensor, err := n.Normalize(img)
			require.NoError(t, err, name)
			requireValidTensor(t, tensor)
		}
	}
}

func TestNormalizer_DiscardsAlpha(t *testing.T) {
	n := NewNormalizer()
	img := uniformImage(50, 80, color.NRGBA{R: 200, G: 100, B: 50, A: 10})

	tensor, err := n.Normalize(img)
	require.NoError(t, err)
	requireValidTensor(t, tensor)

	for _, xy := range [][2]int{{0, 0}, {111, 57}, {223, 223}} {
		require.InDelta(t, 200.0/255, tensor.At(xy[0], xy[1], 0), 0.01)
		require.InDelta(t, 100.0/255, tensor.At(xy[0], xy[1], 1), 0.01)
		require.InDelta(t, 50.0/255, tensor.At(xy[0], xy[1], 2), 0.01)
	}
}

func TestNormalizer_GrayscaleBecomesThreeChannels(t *testing.T) {
	n := NewNormalizer()
	img := image.NewGray(image.Rect(0, 0, 300, 300))
	for i := range img.Pix {
		img.Pix[i] = 128
	}

	tensor, err := n.Normalize(img)
	require.NoError(t, err)
	requireValidTensor(t, tensor)

	for c := 0; c < 3; c++ {
		require.InDelta(t, 128.0/255, tensor.At(10, 10, c), 0.01)
	}
}

func TestNormalizer_HandlesOffsetBounds(t *testing.T) {
	n := NewNormalizer()
	full := noiseImage(400, 400, 7)
	sub := full.SubImage(image.Rect(100, 50, 300, 350))

	tensor, err := n.Normalize(sub)
	require.NoError(t, err)
	requireValidTensor(t, tensor)
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := NewNormalizer()
	img := noiseImage(333, 222, 42)

	a, err := n.Normalize(img)
	require.NoError(t, err)
	b, err := n.Normalize(img)
	require.NoError(t, err)
	require.Equal(t, a.Data, b.Data)
}

func TestNormalizer_InvalidInput(t *testing.T) {
	n := NewNormalizer()

	_, err := n.Decode(nil)
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = n.Decode([]byte("definitely not an image"))
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	// Усечённый PNG: сигнатура есть, данных нет.
	data := encodePNG(t, noiseImage(20, 20, 1))
	_, err = n.Decode(data[:40])
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, noiseImage(10, 10, 2), nil))
	_, err = n.Decode(gifBuf.Bytes())
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = n.Normalize(image.NewRGBA(image.Rect(0, 0, 0, 10)))
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = n.Normalize(nil)
	require.ErrorIs(t, err, entity.ErrInvalidImage)
}
