// Copyright 2025 Strided ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layout provides the channels-last invariant checker.
//
// The checker wraps tensor operators and enforces one rule: an operator
// that receives a distinguishably channels-last 4D input must not return a
// 4D output in the default contiguous layout. Violations fail with a
// *RegressionError naming the operator and dump the offending arguments to
// a diagnostic writer.
//
// Interception is explicit: operators live in a Registry, and
// InstrumentAll replaces each wrappable entry with its checked wrapper.
//
//	reg := layout.TensorOps(cpu.New())
//	checker := layout.New(os.Stdout)
//	reg.InstrumentAll(checker)
//
//	out, err := reg.Call("conv2d", input, kernel, nil, 1, 1)
//	var re *layout.RegressionError
//	if errors.As(err, &re) {
//	    // re.Op lost the channels-last layout
//	}
//
// Sweep drives a whole registry with channels-last probe inputs and
// collects every violation, which is what `strided verify` runs.
package layout

import (
	"io"

	"github.com/strided-ml/strided/internal/layout"
	"github.com/strided-ml/strided/tensor"
)

// Op is a registry operator: a uniform calling convention over tensors and
// plain values.
type Op = layout.Op

// Strided is the tensor surface the checker inspects.
type Strided = layout.Strided

// RegressionError reports an operator that accepted a channels-last input
// and returned a 4D output that regressed to the default layout.
type RegressionError = layout.RegressionError

// Checker wraps operators with the layout-invariant check.
type Checker = layout.Checker

// New creates a Checker writing diagnostics to out (os.Stdout when nil).
func New(out io.Writer) *Checker {
	return layout.New(out)
}

// ContainsChannelsLast reports whether any argument, recursing into nested
// []any sequences, is a distinguishably channels-last 4D tensor.
func ContainsChannelsLast(args []any) bool {
	return layout.ContainsChannelsLast(args)
}

// Registry is an explicit, caller-owned operator namespace.
type Registry = layout.Registry

// NewRegistry creates an empty registry with a diagnostic name.
func NewRegistry(name string) *Registry {
	return layout.NewRegistry(name)
}

// TensorOps builds the standard operator registry over a backend.
func TensorOps(b tensor.Backend) *Registry {
	return layout.TensorOps(b)
}

// DefaultExclusions lists operator names the checker never wraps.
var DefaultExclusions = layout.DefaultExclusions

// Policy configures a verification sweep.
type Policy = layout.Policy

// ProbeShape is the NCHW probe tensor shape used by a sweep.
type ProbeShape = layout.ProbeShape

// DefaultPolicy returns the policy used when no file is given.
func DefaultPolicy() *Policy {
	return layout.DefaultPolicy()
}

// LoadPolicy reads a Policy from a YAML file.
func LoadPolicy(path string) (*Policy, error) {
	return layout.LoadPolicy(path)
}

// Violation records one operator failure found by a sweep.
type Violation = layout.Violation

// Sweep calls every wrappable operator in the registry with channels-last
// probe inputs and collects the violations.
func Sweep(reg *Registry, p *Policy, exclude ...string) ([]Violation, error) {
	return layout.Sweep(reg, p, exclude...)
}
