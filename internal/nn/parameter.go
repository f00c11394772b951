package nn

import (
	"github.com/strided-ml/strided/internal/tensor"
)

// Parameter represents a module parameter (weight, bias, running statistic).
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter creates a new named parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// To converts a 4D parameter to the given memory format in place.
// Non-4D parameters are layout-invariant and left unchanged.
func (p *Parameter[B]) To(format tensor.MemoryFormat) {
	if p.tensor.Dim() != 4 || format == tensor.PreserveFormat {
		return
	}
	p.tensor = p.tensor.To(format)
}
