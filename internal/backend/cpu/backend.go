// Package cpu implements the CPU backend with memory-format-aware kernels.
//
// Every kernel reads its operands through their strides and allocates its
// output in the primary input's memory format, so channels-last tensors
// stay channels-last through the whole operator set (Reshape excepted,
// which is contiguous by definition).
package cpu

import (
	"fmt"

	"github.com/strided-ml/strided/internal/parallel"
	"github.com/strided-ml/strided/internal/tensor"
)

// Verify that CPUBackend implements the Backend interface.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend with default parallelism.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
	}
}

// NewSequential creates a CPU backend with parallelism disabled.
// Useful for deterministic profiling and debugging.
func NewSequential() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.Config{Enabled: false},
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Reshape returns a contiguous tensor with the new shape over the same
// elements in logical order. Reshape never preserves channels-last: the
// new shape has no channel correspondence with the old one.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v into %v", t.Shape(), newShape))
	}

	contig, err := t.To(tensor.Contiguous)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}

	out, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("reshape: failed to create output tensor: %v", err))
	}
	copy(out.Data(), contig.Data()[:out.ByteSize()])
	return out
}

// allocLike allocates an output tensor of the given shape that inherits
// input's memory format (4D outputs of a distinguishably channels-last
// input become channels-last; everything else is contiguous).
func (cpu *CPUBackend) allocLike(input *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	format := tensor.Contiguous
	if len(shape) == 4 && input.IsContiguous(tensor.ChannelsLast) && !input.IsContiguous(tensor.Contiguous) {
		format = tensor.ChannelsLast
	}

	out, err := tensor.NewRawFormat(shape, input.DType(), cpu.device, format)
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to create output tensor: %v", err))
	}
	return out
}

// sameStrides reports whether the tensors share shape and strides, which
// permits raw linear iteration regardless of the logical layout.
func sameStrides(a, b *tensor.RawTensor) bool {
	if !a.Shape().Equal(b.Shape()) {
		return false
	}
	as, bs := a.Strides(), b.Strides()
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// loadAt reads a logical element as float64, honoring strides.
func loadAt(r *tensor.RawTensor, indices ...int) float64 {
	offset := 0
	strides := r.Strides()
	for i, idx := range indices {
		offset += idx * strides[i]
	}
	switch r.DType() {
	case tensor.Float32:
		return float64(r.AsFloat32()[offset])
	case tensor.Float64:
		return r.AsFloat64()[offset]
	case tensor.Int32:
		return float64(r.AsInt32()[offset])
	case tensor.Int64:
		return float64(r.AsInt64()[offset])
	case tensor.Uint8:
		return float64(r.AsUint8()[offset])
	default:
		panic(fmt.Sprintf("cpu: unsupported dtype %s", r.DType()))
	}
}

// storeAt writes a logical element, honoring strides.
func storeAt(r *tensor.RawTensor, v float64, indices ...int) {
	offset := 0
	strides := r.Strides()
	for i, idx := range indices {
		offset += idx * strides[i]
	}
	switch r.DType() {
	case tensor.Float32:
		r.AsFloat32()[offset] = float32(v)
	case tensor.Float64:
		r.AsFloat64()[offset] = v
	case tensor.Int32:
		r.AsInt32()[offset] = int32(v)
	case tensor.Int64:
		r.AsInt64()[offset] = int64(v)
	case tensor.Uint8:
		r.AsUint8()[offset] = uint8(v)
	default:
		panic(fmt.Sprintf("cpu: unsupported dtype %s", r.DType()))
	}
}
