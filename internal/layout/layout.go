// Package layout implements the layout-invariant checker: it wraps tensor
// operators so every call verifies that a channels-last input produces a
// channels-last output.
//
// Not every operator preserves the channels-last property; many fall back
// to producing a contiguous output, silently losing the caller's intended
// memory arrangement. The checker makes that loss loud: instrument a
// Registry of operators once, then run the workload: the first operator
// that regresses a 4D output to the default layout fails with a
// *RegressionError and dumps its arguments for debugging.
//
// Instrumentation mutates the registry in place and has no unwrap step.
// Build a fresh registry when an uninstrumented one is needed (tests do
// this naturally). Instrument before concurrent use begins; the wrapped
// operators themselves are stateless and safe to call concurrently.
package layout

import (
	"github.com/strided-ml/strided/internal/tensor"
)

// Op is the uniform calling convention for checkable operators.
// Implementations receive positional arguments and return a single result.
type Op func(args ...any) (any, error)

// Strided is the tensor surface the checker needs: shape, strides and the
// layout predicates. *tensor.RawTensor satisfies it.
type Strided interface {
	Shape() tensor.Shape
	Strides() []int
	Dim() int
	Device() tensor.Device
	DType() tensor.DataType
	IsContiguous(format tensor.MemoryFormat) bool
}

var _ Strided = (*tensor.RawTensor)(nil)

// ContainsChannelsLast recursively walks the argument list and reports
// whether any tensor in it is laid out distinguishably channels-last.
// Nested []any sequences are descended into; non-tensor values are ignored.
// Short-circuits on the first hit.
//
// "Distinguishably" is the conjunction: contiguous under channels-last AND
// not contiguous under the default layout. Either predicate alone would
// misreport degenerate shapes (size-1 dimensions satisfy both at once),
// so a N1HW or NC11 tensor is deliberately treated as not channels-last.
func ContainsChannelsLast(args []any) bool {
	for _, a := range args {
		switch v := a.(type) {
		case Strided:
			if v.IsContiguous(tensor.ChannelsLast) && !v.IsContiguous(tensor.Contiguous) {
				return true
			}
		case []any:
			if ContainsChannelsLast(v) {
				return true
			}
		}
	}
	return false
}
