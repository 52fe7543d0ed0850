package preprocess

// Tensor is a single-image batch laid out NHWC: (1, height, width, channels).
type Tensor struct {
	Shape [4]int64
	Data  []float32
}

// NewTensor allocates a zeroed tensor with the model input shape.
func NewTensor() *Tensor {
	return &Tensor{
		Shape: [4]int64{1, TargetHeight, TargetWidth, Channels},
		Data:  make([]float32, TargetHeight*TargetWidth*Channels),
	}
}

// At returns the normalized value of channel c at pixel (x, y).
func (t *Tensor) At(y, x, c int) float32 {
	return t.Data[t.index(y, x, c)]
}

// Dims returns the shape as a slice, the form ONNX Runtime shapes are built from.
func (t *Tensor) Dims() []int64 {
	return t.Shape[:]
}

func (t *Tensor) index(y, x, c int) int {
	return (y*int(t.Shape[2])+x)*int(t.Shape[3]) + c
}
