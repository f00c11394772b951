package cpu

import (
	"fmt"
	"math"

	"github.com/strided-ml/strided/internal/parallel"
	"github.com/strided-ml/strided/internal/tensor"
)

// BatchNorm2D normalizes input [N, C, H, W] per channel:
//
//	y = (x - mean[c]) / sqrt(variance[c] + eps) * gamma[c] + beta[c]
//
// mean, variance, gamma and beta are [C] tensors (running statistics and
// affine parameters). The output inherits the input's memory format.
func (cpu *CPUBackend) BatchNorm2D(input, gamma, beta, mean, variance *tensor.RawTensor, eps float64) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("batch_norm: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}

	n, c, h, w := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	for name, p := range map[string]*tensor.RawTensor{"gamma": gamma, "beta": beta, "mean": mean, "variance": variance} {
		if p.Dim() != 1 || p.Shape()[0] != c {
			panic(fmt.Sprintf("batch_norm: %s must be [C]=%d, got %v", name, c, p.Shape()))
		}
	}

	out := cpu.allocLike(input, inputShape)

	parallel.ForBatch(n, c, func(b, ch int) {
		mu := loadAt(mean, ch)
		invStd := 1.0 / math.Sqrt(loadAt(variance, ch)+eps)
		g := loadAt(gamma, ch)
		bt := loadAt(beta, ch)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := (loadAt(input, b, ch, y, x) - mu) * invStd
				storeAt(out, v*g+bt, b, ch, y, x)
			}
		}
	}, cpu.par)

	return out
}
