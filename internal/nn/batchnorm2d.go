package nn

import (
	"fmt"

	"github.com/strided-ml/strided/internal/tensor"
)

// BatchNorm2D applies per-channel batch normalization over [N, C, H, W]
// input using running statistics (inference mode):
//
//	y = (x - mean[c]) / sqrt(var[c] + eps) * gamma[c] + beta[c]
//
// gamma is initialized to ones, beta/mean to zeros, variance to ones.
// All parameters are [C] vectors and therefore layout-invariant; the
// output follows the input's memory format.
type BatchNorm2D[B tensor.Backend] struct {
	numFeatures int
	eps         float64

	gamma    *Parameter[B]
	beta     *Parameter[B]
	mean     *Parameter[B]
	variance *Parameter[B]

	backend B
}

// NewBatchNorm2D creates a BatchNorm2D layer over numFeatures channels.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, eps float64, backend B) *BatchNorm2D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batch_norm: invalid num_features %d", numFeatures))
	}

	shape := tensor.Shape{numFeatures}
	return &BatchNorm2D[B]{
		numFeatures: numFeatures,
		eps:         eps,
		gamma:       NewParameter("batch_norm.gamma", tensor.Ones[float32](shape, backend)),
		beta:        NewParameter("batch_norm.beta", tensor.Zeros[float32](shape, backend)),
		mean:        NewParameter("batch_norm.running_mean", tensor.Zeros[float32](shape, backend)),
		variance:    NewParameter("batch_norm.running_var", tensor.Ones[float32](shape, backend)),
		backend:     backend,
	}
}

// Forward normalizes the input. The output follows the input's layout.
func (bn *BatchNorm2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	raw := bn.backend.BatchNorm2D(
		input.Raw(),
		bn.gamma.Tensor().Raw(),
		bn.beta.Tensor().Raw(),
		bn.mean.Tensor().Raw(),
		bn.variance.Tensor().Raw(),
		bn.eps,
	)
	return tensor.New[float32, B](raw, bn.backend)
}

// Parameters returns gamma, beta and the running statistics.
func (bn *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta, bn.mean, bn.variance}
}

// To is a no-op for BatchNorm2D (all parameters are 1D) but satisfies
// Module so whole models convert uniformly.
func (bn *BatchNorm2D[B]) To(format tensor.MemoryFormat) Module[B] {
	for _, p := range bn.Parameters() {
		p.To(format)
	}
	return bn
}

// NumFeatures returns the number of normalized channels.
func (bn *BatchNorm2D[B]) NumFeatures() int {
	return bn.numFeatures
}
