// Copyright 2025 Strided ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/strided-ml/strided/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Every operation is memory-format aware: outputs are laid out like the
// primary input, and element access honors strides, so operands may arrive
// in any layout. Reshape is the deliberate exception and always returns a
// contiguous tensor.
//
// Implementations:
//   - backend/cpu: pure Go with parallel kernels
//
// Example:
//
//	import (
//	    "github.com/strided-ml/strided/tensor"
//	    "github.com/strided-ml/strided/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.EmptyFormat[float32](tensor.Shape{2, 8, 4, 4}, backend, tensor.ChannelsLast)
//	y := x.ReLU() // channels-last in, channels-last out
type Backend interface {
	// Element-wise binary operations. Operands must share a shape; the
	// output inherits the layout of a.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Element-wise scalar operations. The output inherits x's layout.
	AddScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// ReLU applies max(0, x) element-wise, preserving layout.
	ReLU(x *RawTensor) *RawTensor

	// Conv2D performs 2D convolution with an optional bias (nil for none).
	// The output is allocated in the input's memory format.
	Conv2D(input, kernel, bias *RawTensor, stride, padding int) *RawTensor

	// BatchNorm2D normalizes input per channel, preserving layout.
	BatchNorm2D(input, gamma, beta, mean, variance *RawTensor, eps float64) *RawTensor

	// MaxPool2D applies 2D max pooling, preserving layout.
	MaxPool2D(input *RawTensor, kernelSize, stride int) *RawTensor

	// Reshape returns a contiguous tensor with a new shape over the same
	// elements in logical order.
	Reshape(t *RawTensor, newShape Shape) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
