package cpu

import (
	"fmt"

	"github.com/strided-ml/strided/internal/parallel"
	"github.com/strided-ml/strided/internal/tensor"
)

// Conv2D performs direct 2D convolution.
//
// Input shape: [N, C_in, H, W], kernel shape: [C_out, C_in, K_h, K_w],
// optional bias [C_out] (nil for none).
// Output shape: [N, C_out, H_out, W_out] where
//
//	out_h = (H + 2*padding - K_h) / stride + 1
//	out_w = (W + 2*padding - K_w) / stride + 1
//
// The kernel is memory-format aware: all element access goes through
// strides, and the output is allocated in the input's format, so a
// channels-last input yields a channels-last output. For channels-last
// the inner accumulation over C_in walks stride-1 memory, which is the
// whole point of the layout.
func (cpu *CPUBackend) Conv2D(input, kernel, bias *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape)))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	n, cIn, h, w := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	cOut, cInK, kh, kw := kernelShape[0], kernelShape[1], kernelShape[2], kernelShape[3]

	if cIn != cInK {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, cInK))
	}
	if bias != nil && (bias.Dim() != 1 || bias.Shape()[0] != cOut) {
		panic(fmt.Sprintf("conv2d: bias must be [C_out]=%d, got %v", cOut, bias.Shape()))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", hOut, wOut))
	}

	out := cpu.allocLike(input, tensor.Shape{n, cOut, hOut, wOut})

	parallel.ForBatch(n, cOut, func(b, co int) {
		var biasV float64
		if bias != nil {
			biasV = loadAt(bias, co)
		}
		for oy := 0; oy < hOut; oy++ {
			for ox := 0; ox < wOut; ox++ {
				sum := biasV
				for ky := 0; ky < kh; ky++ {
					iy := oy*stride + ky - padding
					if iy < 0 || iy >= h {
						continue
					}
					for kx := 0; kx < kw; kx++ {
						ix := ox*stride + kx - padding
						if ix < 0 || ix >= w {
							continue
						}
						for ci := 0; ci < cIn; ci++ {
							sum += loadAt(input, b, ci, iy, ix) * loadAt(kernel, co, ci, ky, kx)
						}
					}
				}
				storeAt(out, sum, b, co, oy, ox)
			}
		}
	}, cpu.par)

	return out
}
