package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted shared buffer for Copy-on-Write semantics.
// This enables cheap cloning and layout-preserving views.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for Clone operations).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and deallocates if it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.data = nil
	}
}

// RawTensor is the low-level tensor representation.
//
// Strides are first-class: two tensors with the same shape can arrange the
// same elements differently in memory (see MemoryFormat). All element access
// must go through the strides.
type RawTensor struct {
	buffer *tensorBuffer // Shared reference-counted buffer
	shape  Shape         // Tensor dimensions (always logical NCHW order for 4D)
	stride []int         // Memory strides realizing the layout
	dtype  DataType      // Runtime type information
	device Device        // Compute device
	offset int           // Offset for slicing/views
}

// NewRaw creates a new RawTensor with the given shape and type in the
// default contiguous layout. Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return NewRawFormat(shape, dtype, device, Contiguous)
}

// NewRawFormat creates a new RawTensor laid out in the given memory format.
// ChannelsLast requires a 4D shape.
func NewRawFormat(shape Shape, dtype DataType, device Device, format MemoryFormat) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	strides, err := shape.StridesFor(format)
	if err != nil {
		return nil, err
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &RawTensor{
		buffer: newTensorBuffer(byteSize),
		shape:  shape.Clone(),
		stride: strides,
		dtype:  dtype,
		device: device,
		offset: 0,
	}, nil
}

// NewRawLike creates an uninitialized RawTensor with the same shape, dtype,
// device, and memory layout as the source. This is the *_like preservation
// rule: layout follows the source, not the default.
func NewRawLike(src *RawTensor) (*RawTensor, error) {
	out, err := NewRaw(src.shape, src.dtype, src.device)
	if err != nil {
		return nil, err
	}
	out.stride = append([]int(nil), src.stride...)
	return out, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Dim returns the number of dimensions.
func (r *RawTensor) Dim() int {
	return len(r.shape)
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// IsContiguous reports whether the tensor's strides realize the given
// memory format.
//
// Known limitation (carried over from stride-based layouts in general):
// for shapes with size-1 dimensions, IsContiguous can be true for both
// Contiguous and ChannelsLast simultaneously: the stride of a size-1
// dimension is meaningless, so N1HW and NC11 tensors are ambiguous.
// Use the conjunction IsContiguous(ChannelsLast) && !IsContiguous(Contiguous)
// to test for a layout that is distinguishably channels-last.
func (r *RawTensor) IsContiguous(format MemoryFormat) bool {
	expected, err := r.shape.StridesFor(format)
	if err != nil {
		return false
	}
	return stridesMatch(r.shape, r.stride, expected)
}

// To returns a tensor laid out in the requested memory format.
//
// If the tensor already satisfies the format, the buffer is shared
// (cheap, refcounted). Otherwise the elements are copied into a fresh
// buffer with the format's canonical strides. Dimension order is always
// preserved; only the strides change.
func (r *RawTensor) To(format MemoryFormat) (*RawTensor, error) {
	if format == PreserveFormat {
		return r.Clone(), nil
	}

	targetStrides, err := r.shape.StridesFor(format)
	if err != nil {
		return nil, err
	}

	if r.IsContiguous(format) {
		return r.Clone(), nil
	}

	out, err := NewRaw(r.shape, r.dtype, r.device)
	if err != nil {
		return nil, err
	}
	out.stride = targetStrides

	copyStrided(out, r)
	return out, nil
}

// copyStrided copies every logical element from src to dst, honoring the
// strides on both sides. Shapes and dtypes must already match.
func copyStrided(dst, src *RawTensor) {
	elemSize := src.dtype.Size()
	srcData := src.buffer.data[src.offset:]
	dstData := dst.buffer.data[dst.offset:]

	n := src.NumElements()
	dims := len(src.shape)
	idx := make([]int, dims)

	for i := 0; i < n; i++ {
		srcOff, dstOff := 0, 0
		for d := 0; d < dims; d++ {
			srcOff += idx[d] * src.stride[d]
			dstOff += idx[d] * dst.stride[d]
		}
		copy(dstData[dstOff*elemSize:(dstOff+1)*elemSize], srcData[srcOff*elemSize:(srcOff+1)*elemSize])

		for d := dims - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < src.shape[d] {
				break
			}
			idx[d] = 0
		}
	}
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer.data[r.offset:]
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.buffer.data[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	data := r.buffer.data[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	data := r.buffer.data[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	data := r.buffer.data[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	if r.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", r.dtype))
	}
	return r.buffer.data[r.offset:] // Already []byte = []uint8
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool {
	if r.dtype != Bool {
		panic(fmt.Sprintf("tensor dtype is %s, not bool", r.dtype))
	}
	data := r.buffer.data[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*bool)(unsafe.Pointer(&data[0])), r.NumElements())
}

// Clone creates a shallow copy of the RawTensor (shares buffer with
// reference counting). Strides, and therefore the memory format, are
// preserved, matching the layout-preservation rule for clone.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer, // Share the same buffer
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
		offset: r.offset,
	}
}

// Release decrements the reference count and deallocates if it reaches 0.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// String returns a compact description: strides, shape, device, dtype.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor{strides: %v, shape: %v, %s, %s}", r.stride, r.shape, r.device, r.dtype)
}
