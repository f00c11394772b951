package tensor

import "fmt"

// MemoryFormat selects how a tensor's elements are arranged in memory.
//
// Both formats keep the logical NCHW dimension order; they differ only in
// which dimension is packed most tightly. Contiguous packs width (classic
// row-major), ChannelsLast packs channels (pixel-by-pixel storage).
type MemoryFormat int

const (
	// Contiguous is the default row-major layout: strides decrease in the
	// declared dimension order.
	Contiguous MemoryFormat = iota

	// ChannelsLast gives the channel dimension stride 1. Only 4D NCHW
	// tensors can be laid out this way.
	ChannelsLast

	// PreserveFormat is accepted by *Like creation functions and means
	// "inherit the source tensor's layout".
	PreserveFormat
)

// String returns a human-readable format name.
func (f MemoryFormat) String() string {
	switch f {
	case Contiguous:
		return "contiguous"
	case ChannelsLast:
		return "channels_last"
	case PreserveFormat:
		return "preserve"
	default:
		return "unknown"
	}
}

// StridesFor computes the canonical strides of the shape under the given
// format. ChannelsLast is only defined for 4D shapes.
func (s Shape) StridesFor(format MemoryFormat) ([]int, error) {
	switch format {
	case Contiguous:
		return s.ComputeStrides(), nil
	case ChannelsLast:
		if len(s) != 4 {
			return nil, fmt.Errorf("channels_last requires a 4D shape, got %dD shape %v", len(s), s)
		}
		return s.ChannelsLastStrides(), nil
	default:
		return nil, fmt.Errorf("no canonical strides for format %s", format)
	}
}

// stridesMatch reports whether actual strides realize the expected layout.
// Strides of size-1 dimensions are ignored: a dimension that is never
// stepped over has no meaningful stride.
//
// Because of this, degenerate shapes (e.g. N1HW or NC11) can match the
// canonical strides of both Contiguous and ChannelsLast at once. This
// ambiguity is inherent to stride-based layouts and is deliberately not
// resolved here; callers that need "distinguishably channels-last" must
// test both formats (see layout.ContainsChannelsLast).
func stridesMatch(shape Shape, actual, expected []int) bool {
	if len(actual) != len(expected) || len(actual) != len(shape) {
		return false
	}
	for i := range expected {
		if shape[i] == 1 {
			continue
		}
		if actual[i] != expected[i] {
			return false
		}
	}
	return true
}
