package tensor

import (
	"fmt"
	"math"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively through logical (stride-aware)
// indexing, so it is correct for any memory format at the cost of speed.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

// AddScalar adds a scalar to every element.
func (m *MockBackend) AddScalar(x *RawTensor, scalar any) *RawTensor {
	s := scalarToFloat64(scalar)
	return m.unary(x, func(v float64) float64 { return v + s })
}

// MulScalar multiplies every element by a scalar.
func (m *MockBackend) MulScalar(x *RawTensor, scalar any) *RawTensor {
	s := scalarToFloat64(scalar)
	return m.unary(x, func(v float64) float64 { return v * s })
}

// ReLU applies max(0, x) element-wise.
func (m *MockBackend) ReLU(x *RawTensor) *RawTensor {
	return m.unary(x, func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	})
}

// Conv2D performs naive direct 2D convolution.
func (m *MockBackend) Conv2D(input, kernel, bias *RawTensor, stride, padding int) *RawTensor {
	in := input.Shape()
	k := kernel.Shape()
	if len(in) != 4 || len(k) != 4 {
		panic("conv2d: input and kernel must be 4D")
	}
	n, cIn, h, w := in[0], in[1], in[2], in[3]
	cOut, kh, kw := k[0], k[2], k[3]
	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1

	out := m.allocLike(input, Shape{n, cOut, hOut, wOut})
	for b := 0; b < n; b++ {
		for co := 0; co < cOut; co++ {
			for oy := 0; oy < hOut; oy++ {
				for ox := 0; ox < wOut; ox++ {
					sum := 0.0
					for ci := 0; ci < cIn; ci++ {
						for ky := 0; ky < kh; ky++ {
							for kx := 0; kx < kw; kx++ {
								iy := oy*stride + ky - padding
								ix := ox*stride + kx - padding
								if iy < 0 || iy >= h || ix < 0 || ix >= w {
									continue
								}
								sum += elemAt(input, b, ci, iy, ix) * elemAt(kernel, co, ci, ky, kx)
							}
						}
					}
					if bias != nil {
						sum += elemAt(bias, co)
					}
					setElem(out, sum, b, co, oy, ox)
				}
			}
		}
	}
	return out
}

// BatchNorm2D normalizes per channel.
func (m *MockBackend) BatchNorm2D(input, gamma, beta, mean, variance *RawTensor, eps float64) *RawTensor {
	in := input.Shape()
	if len(in) != 4 {
		panic("batch_norm: input must be 4D")
	}
	n, c, h, w := in[0], in[1], in[2], in[3]
	out := m.allocLike(input, in)
	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			mu := elemAt(mean, ch)
			sigma := elemAt(variance, ch)
			g := elemAt(gamma, ch)
			bt := elemAt(beta, ch)
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					v := (elemAt(input, b, ch, y, x) - mu) / math.Sqrt(sigma+eps)
					setElem(out, v*g+bt, b, ch, y, x)
				}
			}
		}
	}
	return out
}

// MaxPool2D applies naive 2D max pooling.
func (m *MockBackend) MaxPool2D(input *RawTensor, kernelSize, stride int) *RawTensor {
	in := input.Shape()
	if len(in) != 4 {
		panic("max_pool2d: input must be 4D")
	}
	n, c, h, w := in[0], in[1], in[2], in[3]
	hOut := (h-kernelSize)/stride + 1
	wOut := (w-kernelSize)/stride + 1
	out := m.allocLike(input, Shape{n, c, hOut, wOut})
	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			for oy := 0; oy < hOut; oy++ {
				for ox := 0; ox < wOut; ox++ {
					best := elemAt(input, b, ch, oy*stride, ox*stride)
					for ky := 0; ky < kernelSize; ky++ {
						for kx := 0; kx < kernelSize; kx++ {
							v := elemAt(input, b, ch, oy*stride+ky, ox*stride+kx)
							if v > best {
								best = v
							}
						}
					}
					setElem(out, best, b, ch, oy, ox)
				}
			}
		}
	}
	return out
}

// Reshape returns a contiguous tensor with the new shape.
func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v into %v", t.Shape(), newShape))
	}
	contig, err := t.To(Contiguous)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	out, err := NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	copy(out.Data(), contig.Data()[:out.ByteSize()])
	return out
}

// allocLike allocates an output with the given shape in input's memory
// format when the shape is 4D and the input is channels-last; contiguous
// otherwise. This is the layout-preservation rule every mock op follows.
func (m *MockBackend) allocLike(input *RawTensor, shape Shape) *RawTensor {
	format := Contiguous
	if len(shape) == 4 && input.IsContiguous(ChannelsLast) && !input.IsContiguous(Contiguous) {
		format = ChannelsLast
	}
	out, err := NewRawFormat(shape, input.DType(), CPU, format)
	if err != nil {
		panic(err)
	}
	return out
}

func (m *MockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("elementwise: shape mismatch %v vs %v", a.Shape(), b.Shape()))
	}
	out := m.allocLike(a, a.Shape())
	forEachIndex(a.Shape(), func(idx []int) {
		setElem(out, op(elemAt(a, idx...), elemAt(b, idx...)), idx...)
	})
	return out
}

func (m *MockBackend) unary(x *RawTensor, op func(float64) float64) *RawTensor {
	out := m.allocLike(x, x.Shape())
	forEachIndex(x.Shape(), func(idx []int) {
		setElem(out, op(elemAt(x, idx...)), idx...)
	})
	return out
}

// forEachIndex visits every logical index of the shape in row-major order.
func forEachIndex(shape Shape, f func(idx []int)) {
	n := shape.NumElements()
	idx := make([]int, len(shape))
	for i := 0; i < n; i++ {
		f(idx)
		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
}

// elemAt reads the element at a logical index as float64, honoring strides.
func elemAt(r *RawTensor, indices ...int) float64 {
	offset := 0
	for i, idx := range indices {
		offset += idx * r.Strides()[i]
	}
	switch r.DType() {
	case Float32:
		return float64(r.AsFloat32()[offset])
	case Float64:
		return r.AsFloat64()[offset]
	case Int32:
		return float64(r.AsInt32()[offset])
	case Int64:
		return float64(r.AsInt64()[offset])
	case Uint8:
		return float64(r.AsUint8()[offset])
	default:
		panic(fmt.Sprintf("elemAt: unsupported dtype %s", r.DType()))
	}
}

// setElem writes the element at a logical index, honoring strides.
func setElem(r *RawTensor, v float64, indices ...int) {
	offset := 0
	for i, idx := range indices {
		offset += idx * r.Strides()[i]
	}
	switch r.DType() {
	case Float32:
		r.AsFloat32()[offset] = float32(v)
	case Float64:
		r.AsFloat64()[offset] = v
	case Int32:
		r.AsInt32()[offset] = int32(v)
	case Int64:
		r.AsInt64()[offset] = int64(v)
	case Uint8:
		r.AsUint8()[offset] = uint8(v)
	default:
		panic(fmt.Sprintf("setElem: unsupported dtype %s", r.DType()))
	}
}

func scalarToFloat64(scalar any) float64 {
	switch s := scalar.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int:
		return float64(s)
	case int32:
		return float64(s)
	case int64:
		return float64(s)
	case uint8:
		return float64(s)
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", scalar))
	}
}
