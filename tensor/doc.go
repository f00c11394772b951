// Copyright 2025 Strided ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides strided tensors with explicit memory formats.
//
// # Overview
//
// A tensor's logical shape is independent of its physical memory layout.
// This package tracks both: every tensor carries strides, and 4D NCHW
// tensors can be laid out contiguous (NCHW order, the default) or
// channels-last (NHWC order, channel stride 1), matching shape
// (10, 3, 32, 32):
//
//	contiguous strides:    [3072 1024 32 1]
//	channels_last strides: [3072 1 96 3]
//
// # Basic Usage
//
//	import (
//	    "github.com/strided-ml/strided/tensor"
//	    "github.com/strided-ml/strided/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.EmptyFormat[float32](tensor.Shape{10, 3, 32, 32}, backend, tensor.ChannelsLast)
//	    x.Stride()                              // [3072 1 96 3]
//	    x.IsContiguous(tensor.ChannelsLast)     // true
//
//	    y := x.To(tensor.Contiguous)            // physical copy, same logical values
//	}
//
// # Layout Preservation
//
// Operators preserve the input's memory format: pointwise math, Conv2D,
// BatchNorm2D and MaxPool2D allocate their outputs in the layout of the
// first tensor input, and Clone and the *Like creation functions copy the
// source layout. Reshape is the deliberate exception, it always returns a
// contiguous tensor.
//
// # Degenerate Shapes
//
// Contiguity is a predicate over strides that ignores size-1 dimensions.
// For shapes like (N, 1, H, W) or (N, C, 1, 1) the contiguous and
// channels-last layouts coincide, so both IsContiguous(Contiguous) and
// IsContiguous(ChannelsLast) report true. Such shapes are ambiguous;
// code that needs a distinguishable channels-last tensor must use
// c > 1 and h*w > 1.
package tensor
