package cpu

import (
	"fmt"

	"github.com/strided-ml/strided/internal/parallel"
	"github.com/strided-ml/strided/internal/tensor"
)

// Pointwise kernels. When operands share strides the kernel runs over the
// linear buffer (the logical order is irrelevant for element-wise math),
// which keeps channels-last tensors on the fast path. Mixed layouts fall
// back to logical indexing.

// Add performs element-wise addition. Output layout follows a.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction. Output layout follows a.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication. Output layout follows a.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division. Output layout follows a.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, func(x, y float64) float64 { return x / y })
}

func (cpu *CPUBackend) binary(name string, a, b *tensor.RawTensor, op func(float64, float64) float64) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s: shape mismatch %v vs %v", name, a.Shape(), b.Shape()))
	}

	out := cpu.allocLike(a, a.Shape())

	if sameStrides(a, b) && sameStrides(a, out) {
		// Fast path: identical layouts, linear iteration.
		switch a.DType() {
		case tensor.Float32:
			ad, bd, od := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
			parallel.For(len(od), func(i int) {
				od[i] = float32(op(float64(ad[i]), float64(bd[i])))
			}, cpu.par)
			return out
		case tensor.Float64:
			ad, bd, od := a.AsFloat64(), b.AsFloat64(), out.AsFloat64()
			parallel.For(len(od), func(i int) {
				od[i] = op(ad[i], bd[i])
			}, cpu.par)
			return out
		}
	}

	// Mixed layouts or non-float dtype: logical indexing.
	eachIndex(a.Shape(), func(idx []int) {
		storeAt(out, op(loadAt(a, idx...), loadAt(b, idx...)), idx...)
	})
	return out
}

// AddScalar adds a scalar to every element. Output layout follows x.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64(scalar)
	return cpu.unary(x, func(v float64) float64 { return v + s })
}

// MulScalar multiplies every element by a scalar. Output layout follows x.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64(scalar)
	return cpu.unary(x, func(v float64) float64 { return v * s })
}

// ReLU applies max(0, x) element-wise, preserving layout.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	})
}

func (cpu *CPUBackend) unary(x *tensor.RawTensor, op func(float64) float64) *tensor.RawTensor {
	out := cpu.allocLike(x, x.Shape())

	if sameStrides(x, out) {
		switch x.DType() {
		case tensor.Float32:
			xd, od := x.AsFloat32(), out.AsFloat32()
			parallel.For(len(od), func(i int) {
				od[i] = float32(op(float64(xd[i])))
			}, cpu.par)
			return out
		case tensor.Float64:
			xd, od := x.AsFloat64(), out.AsFloat64()
			parallel.For(len(od), func(i int) {
				od[i] = op(xd[i])
			}, cpu.par)
			return out
		}
	}

	eachIndex(x.Shape(), func(idx []int) {
		storeAt(out, op(loadAt(x, idx...)), idx...)
	})
	return out
}

// eachIndex visits every logical index of the shape in row-major order.
// The index slice is reused between calls.
func eachIndex(shape tensor.Shape, f func(idx []int)) {
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

func toFloat64(scalar any) float64 {
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
