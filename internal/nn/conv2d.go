package nn

import (
	"fmt"

	"github.com/strided-ml/strided/internal/tensor"
)

// Conv2D is a 2D convolutional layer.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel_h, kernel_w]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_h, out_w]
//
// The layer is memory-format aware: after conv.To(tensor.ChannelsLast) the
// weight is stored channels-last, and a channels-last input produces a
// channels-last output.
//
// Example:
//
//	conv := nn.NewConv2D(8, 4, 3, 3, 1, 0, true, backend).To(tensor.ChannelsLast)
//	out := conv.Forward(input.To(tensor.ChannelsLast))
//	out.IsContiguous(tensor.ChannelsLast) // true
type Conv2D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  [2]int
	stride      int
	padding     int

	weight *Parameter[B] // [out_channels, in_channels, kernel_h, kernel_w]
	bias   *Parameter[B] // [out_channels] or nil

	backend B
}

// NewConv2D creates a new 2D convolutional layer with Xavier initialization.
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelH <= 0 || kernelW <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size h=%d, w=%d", kernelH, kernelW))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	weightShape := tensor.Shape{outChannels, inChannels, kernelH, kernelW}
	fanIn := inChannels * kernelH * kernelW
	fanOut := outChannels * kernelH * kernelW
	weightParam := NewParameter("conv2d.weight", Xavier(fanIn, fanOut, weightShape, backend))

	var biasParam *Parameter[B]
	if useBias {
		biasParam = NewParameter("conv2d.bias", tensor.Zeros[float32](tensor.Shape{outChannels}, backend))
	}

	return &Conv2D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  [2]int{kernelH, kernelW},
		stride:      stride,
		padding:     padding,
		weight:      weightParam,
		bias:        biasParam,
		backend:     backend,
	}
}

// Forward computes the convolution. The output is allocated in the input's
// memory format.
func (c *Conv2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	var biasRaw *tensor.RawTensor
	if c.bias != nil {
		biasRaw = c.bias.Tensor().Raw()
	}
	raw := c.backend.Conv2D(input.Raw(), c.weight.Tensor().Raw(), biasRaw, c.stride, c.padding)
	return tensor.New[float32, B](raw, c.backend)
}

// Parameters returns the weight (and bias, if present).
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	params := []*Parameter[B]{c.weight}
	if c.bias != nil {
		params = append(params, c.bias)
	}
	return params
}

// To converts the layer's parameters to the given memory format.
func (c *Conv2D[B]) To(format tensor.MemoryFormat) Module[B] {
	for _, p := range c.Parameters() {
		p.To(format)
	}
	return c
}

// InChannels returns the number of input channels.
func (c *Conv2D[B]) InChannels() int {
	return c.inChannels
}

// OutChannels returns the number of output channels.
func (c *Conv2D[B]) OutChannels() int {
	return c.outChannels
}

// KernelSize returns the kernel dimensions [kernel_h, kernel_w].
func (c *Conv2D[B]) KernelSize() [2]int {
	return c.kernelSize
}
