// Copyright 2025 Strided ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides memory-format-aware neural network layers.
//
// Every layer preserves the memory format of its input, and To converts a
// layer's parameters between formats:
//
//	conv := nn.NewConv2D(3, 8, 3, 3, 1, 1, true, backend).To(tensor.ChannelsLast)
//	out := conv.Forward(input.To(tensor.ChannelsLast))
//	out.IsContiguous(tensor.ChannelsLast) // true
package nn

import (
	"github.com/strided-ml/strided/internal/nn"
	"github.com/strided-ml/strided/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a learnable parameter. Parameter.To converts 4D
// parameters between memory formats in place; lower-rank parameters are
// unaffected.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Conv2D is a 2D convolutional layer. Its output is allocated in the
// input's memory format.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer with Xavier initialization.
//
// Example:
//
//	conv := nn.NewConv2D(3, 8, 3, 3, 1, 1, true, backend) // in=3, out=8, kernel=3x3, stride=1, padding=1, bias
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, useBias, backend)
}

// BatchNorm2D is a 2D batch normalization layer running in inference mode
// with fixed statistics. It preserves the input's memory format.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a new batch normalization layer over numFeatures
// channels.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, eps float64, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(numFeatures, eps, backend)
}

// ReLU is the rectified linear activation. It preserves the input's
// memory format.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}
