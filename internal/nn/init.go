package nn

import (
	"math"
	"math/rand"

	"github.com/strided-ml/strided/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Draws values from U(-b, b) with b = sqrt(6/(fan_in + fan_out)), which
// keeps activation variance stable across layers.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Empty[float32](shape, backend)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand for weight initialization (not security-critical)
		data[i] = float32((rand.Float64()*2.0 - 1.0) * bound)
	}
	return t
}
