// Package nn implements memory-format-aware neural network modules.
//
// The modules exist to demonstrate and test layout propagation: converting
// a module with To(tensor.ChannelsLast) converts its parameters once, after
// which channels-last inputs flow through the graph without layout
// regressions. This mirrors the one-time model conversion step of
// channels-last workflows.
package nn

import (
	"github.com/strided-ml/strided/internal/tensor"
)

// Module is the base interface for all neural network components.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	// Returns an empty slice for modules without parameters.
	Parameters() []*Parameter[B]

	// To converts the module's parameters to the given memory format,
	// returning the module for chaining. Parameters that are not 4D
	// (biases, per-channel vectors) are left untouched.
	To(format tensor.MemoryFormat) Module[B]
}
