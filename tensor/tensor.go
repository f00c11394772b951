// Copyright 2025 Strided ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for strided tensor operations.
//
// The package defines core interfaces and types:
//   - Tensor[T, B]: high-level generic tensor with type safety
//   - RawTensor: low-level strided tensor
//   - Backend: interface for device-specific compute implementations
//   - Shape, DataType, Device, MemoryFormat: core type definitions
package tensor

import (
	"github.com/strided-ml/strided/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{10, 3, 32, 32} represents a 4D NCHW tensor.
type Shape = tensor.Shape

// MemoryFormat selects the physical memory layout of a tensor.
type MemoryFormat = tensor.MemoryFormat

// Memory format constants.
const (
	// Contiguous is the default layout: the last dimension has stride 1.
	Contiguous MemoryFormat = tensor.Contiguous
	// ChannelsLast lays a 4D NCHW tensor out in NHWC order: the channel
	// dimension has stride 1.
	ChannelsLast MemoryFormat = tensor.ChannelsLast
	// PreserveFormat keeps the source layout on conversion.
	PreserveFormat MemoryFormat = tensor.PreserveFormat
)

// RawTensor is the low-level strided tensor: a buffer plus shape, strides,
// dtype, device and offset.
type RawTensor = tensor.RawTensor

// Tensor is a generic type-safe tensor.
//
// T is the data type (float32, float64, int32, int64, uint8, bool).
// B is the backend implementation.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Creation functions

// Empty creates an uninitialized tensor in the default contiguous layout.
func Empty[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Empty[T, B](shape, b)
}

// EmptyFormat creates a tensor laid out in the given memory format.
//
// Example:
//
//	x := tensor.EmptyFormat[float32](tensor.Shape{10, 3, 32, 32}, backend, tensor.ChannelsLast)
//	x.Stride() // [3072, 1, 96, 3]
func EmptyFormat[T DType, B Backend](shape Shape, b B, format MemoryFormat) *Tensor[T, B] {
	return tensor.EmptyFormat[T, B](shape, b, format)
}

// EmptyLike creates an uninitialized tensor with the same shape, dtype and
// memory layout as the source.
func EmptyLike[T DType, B Backend](src *Tensor[T, B]) *Tensor[T, B] {
	return tensor.EmptyLike(src)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// ZerosLike creates a zero tensor with the source's shape and layout.
func ZerosLike[T DType, B Backend](src *Tensor[T, B]) *Tensor[T, B] {
	return tensor.ZerosLike(src)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a tensor filled with random values from the standard
// normal distribution N(0, 1). Float types only.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// New creates a tensor from a raw tensor.
//
// This is a low-level function. Most users should use creation functions
// like Zeros, Ones, or EmptyFormat instead.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw creates a new raw tensor in the default contiguous layout.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// NewRawFormat creates a new raw tensor laid out in the given memory format.
func NewRawFormat(shape Shape, dtype DataType, device Device, format MemoryFormat) (*RawTensor, error) {
	return tensor.NewRawFormat(shape, dtype, device, format)
}

// NewRawLike creates an uninitialized raw tensor with the source's shape,
// dtype, device and memory layout.
func NewRawLike(src *RawTensor) (*RawTensor, error) {
	return tensor.NewRawLike(src)
}
