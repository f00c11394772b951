package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major (contiguous) strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
//
// Example: Shape{10, 3, 32, 32} -> [3072, 1024, 32, 1].
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// ChannelsLastStrides calculates strides that keep the channel dimension
// most tightly packed while preserving the NCHW dimension order.
// Only defined for 4D shapes; callers must validate dimensionality first.
//
// Example: Shape{10, 3, 32, 32} -> [3072, 1, 96, 3].
func (s Shape) ChannelsLastStrides() []int {
	if len(s) != 4 {
		panic(fmt.Sprintf("channels-last strides require a 4D shape, got %dD", len(s)))
	}
	c, w := s[1], s[3]
	return []int{c * s[2] * w, 1, c * w, c}
}
