package tensor

import (
	"math"
	"math/rand"
)

// Empty creates an uninitialized tensor in the default contiguous layout.
// (Go buffers are zeroed, so "uninitialized" means "no fill pass".)
func Empty[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return EmptyFormat[T, B](shape, b, Contiguous)
}

// EmptyFormat creates a tensor laid out in the given memory format.
//
// Example:
//
//	x := tensor.EmptyFormat[float32](Shape{10, 3, 32, 32}, backend, tensor.ChannelsLast)
//	x.Stride() // [3072, 1, 96, 3]
func EmptyFormat[T DType, B Backend](shape Shape, b B, format MemoryFormat) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRawFormat(shape, dtype, b.Device(), format)
	if err != nil {
		panic(err) // Shape/format validation should prevent this
	}
	return New[T, B](raw, b)
}

// EmptyLike creates an uninitialized tensor with the same shape, dtype,
// and memory layout as the source. *_like creation preserves layout.
func EmptyLike[T DType, B Backend](src *Tensor[T, B]) *Tensor[T, B] {
	raw, err := NewRawLike(src.Raw())
	if err != nil {
		panic(err)
	}
	return New[T, B](raw, src.Backend())
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	// Buffers are zero-initialized by make()
	return Empty[T, B](shape, b)
}

// ZerosLike creates a zero tensor with the source's shape and layout.
func ZerosLike[T DType, B Backend](src *Tensor[T, B]) *Tensor[T, B] {
	return EmptyLike(src)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	// Type-specific one value
	var dummy T
	var one any
	switch any(dummy).(type) {
	case float32:
		one = float32(1)
	case float64:
		one = float64(1)
	case int32:
		one = int32(1)
	case int64:
		one = int64(1)
	case uint8:
		one = uint8(1)
	case bool:
		one = true
	}

	for i := range data {
		data[i] = one.(T)
	}
	return t
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with random values from a normal distribution
// (mean=0, std=1) using the Box-Muller transform. Only float types.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32:
		dataF32 := any(data).([]float32)
		for i := 0; i < len(dataF32); i += 2 {
			u1 := rand.Float64() //nolint:gosec // G404: math/rand is intentional for reproducibility
			u2 := rand.Float64() //nolint:gosec // G404: math/rand is intentional for reproducibility
			z0 := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
			z1 := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
			dataF32[i] = float32(z0)
			if i+1 < len(dataF32) {
				dataF32[i+1] = float32(z1)
			}
		}
	case float64:
		dataF64 := any(data).([]float64)
		for i := 0; i < len(dataF64); i += 2 {
			u1 := rand.Float64() //nolint:gosec // G404: math/rand is intentional for reproducibility
			u2 := rand.Float64() //nolint:gosec // G404: math/rand is intentional for reproducibility
			z0 := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
			z1 := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
			dataF64[i] = z0
			if i+1 < len(dataF64) {
				dataF64[i+1] = z1
			}
		}
	default:
		panic("Randn only supports float32 and float64 types")
	}
	return t
}
