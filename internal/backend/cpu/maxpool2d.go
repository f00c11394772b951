package cpu

import (
	"fmt"

	"github.com/strided-ml/strided/internal/parallel"
	"github.com/strided-ml/strided/internal/tensor"
)

// MaxPool2D applies 2D max pooling over input [N, C, H, W].
//
// Output shape: [N, C, (H-kernelSize)/stride+1, (W-kernelSize)/stride+1].
// The output inherits the input's memory format.
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("max_pool2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if kernelSize <= 0 || stride <= 0 {
		panic(fmt.Sprintf("max_pool2d: invalid kernel=%d stride=%d", kernelSize, stride))
	}

	n, c, h, w := inputShape[0], inputShape[1], inputShape[2], inputShape[3]
	hOut := (h-kernelSize)/stride + 1
	wOut := (w-kernelSize)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("max_pool2d: invalid output dimensions: out_h=%d, out_w=%d", hOut, wOut))
	}

	out := cpu.allocLike(input, tensor.Shape{n, c, hOut, wOut})

	parallel.ForBatch(n, c, func(b, ch int) {
		for oy := 0; oy < hOut; oy++ {
			for ox := 0; ox < wOut; ox++ {
				best := loadAt(input, b, ch, oy*stride, ox*stride)
				for ky := 0; ky < kernelSize; ky++ {
					for kx := 0; kx < kernelSize; kx++ {
						v := loadAt(input, b, ch, oy*stride+ky, ox*stride+kx)
						if v > best {
							best = v
						}
					}
				}
				storeAt(out, best, b, ch, oy, ox)
			}
		}
	}, cpu.par)

	return out
}
