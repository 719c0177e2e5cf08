package entity

// Размер входа классификатора.
const (
	InputSize     = 224
	InputChannels = 3
)

// Tensor: вход классификатора в раскладке NHWC, значения в [0,1].
type Tensor struct {
	Shape [4]int64  // (1, 224, 224, 3)
	Data  []float32 // len = произведение Shape
}

// NewTensor создаёт нулевой тензор формы (1, InputSize, InputSize, InputChannels).
func NewTensor() Tensor {
	return Tensor{
		Shape: [4]int64{1, InputSize, InputSize, InputChannels},
		Data:  make([]float32, InputSize*InputSize*InputChannels),
	}
}

// Len возвращает число элементов по форме.
func (t Tensor) Len() int {
	n := int64(1)
	for _, d := range t.Shape {
		n *= d
	}
	return int(n)
}

// Set записывает значение канала c пикселя (x, y).
func (t Tensor) Set(x, y, c int, v float32) {
	w, ch := int(t.Shape[2]), int(t.Shape[3])
	t.Data[(y*w+x)*ch+c] = v
}

// At возвращает значение канала c пикселя (x, y).
func (t Tensor) At(x, y, c int) float32 {
	w, ch := int(t.Shape[2]), int(t.Shape[3])
	return t.Data[(y*w+x)*ch+c]
}
