// Copyright 2025 Strided ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/strided-ml/strided/internal/backend/cpu"
	"github.com/strided-ml/strided/tensor"
)

// Backend represents the CPU backend implementation.
//
// All kernels are stride-aware pure Go: they honor the input's memory
// format and allocate outputs in the same format.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend with parallel kernels.
//
// Example:
//
//	import (
//	    "github.com/strided-ml/strided/backend/cpu"
//	    "github.com/strided-ml/strided/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend that runs kernels on a single
// goroutine. Useful for deterministic profiling and debugging.
func NewSequential() *Backend {
	return internalcpu.NewSequential()
}
