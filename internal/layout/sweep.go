package layout

import (
	"errors"
	"fmt"

	"github.com/strided-ml/strided/internal/tensor"
)

// Violation records one operator failure found by a sweep. Err is either a
// *RegressionError (layout lost) or the operator's own error.
type Violation struct {
	Op  string
	Err error
}

// IsRegression reports whether the violation is a layout regression rather
// than an ordinary operator failure.
func (v Violation) IsRegression() bool {
	var re *RegressionError
	return errors.As(v.Err, &re)
}

// Sweep calls every wrappable operator in the registry with channels-last
// probe inputs and collects the violations the instrumented wrappers
// raise. The registry must already be instrumented (see InstrumentAll);
// sweeping an uninstrumented registry finds nothing.
//
// Operators without a known probe recipe are skipped; the sweep exercises
// the standard TensorOps surface.
func Sweep(reg *Registry, p *Policy, exclude ...string) ([]Violation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(DefaultExclusions)+len(exclude)+len(p.Exclude))
	for _, name := range DefaultExclusions {
		excluded[name] = true
	}
	for _, name := range p.Exclude {
		excluded[name] = true
	}
	for _, name := range exclude {
		excluded[name] = true
	}

	probes, err := buildProbes(p.Probe)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, name := range reg.Names() {
		if excluded[name] || reg.IsSealed(name) {
			continue
		}
		args, ok := probes[name]
		if !ok {
			continue
		}
		if _, err := reg.Call(name, args...); err != nil {
			violations = append(violations, Violation{Op: name, Err: err})
			if p.FailFast {
				break
			}
		}
	}
	return violations, nil
}

// buildProbes constructs per-operator argument lists around a channels-last
// input of the probe shape.
func buildProbes(s ProbeShape) (map[string][]any, error) {
	shape := tensor.Shape{s.N, s.C, s.H, s.W}

	input, err := tensor.NewRawFormat(shape, tensor.Float32, tensor.CPU, tensor.ChannelsLast)
	if err != nil {
		return nil, fmt.Errorf("build probes: %w", err)
	}
	fill(input)

	other, err := tensor.NewRawLike(input)
	if err != nil {
		return nil, fmt.Errorf("build probes: %w", err)
	}
	fill(other)

	kernel, err := tensor.NewRaw(tensor.Shape{s.C, s.C, 3, 3}, tensor.Float32, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("build probes: %w", err)
	}
	fill(kernel)

	channelVec := func(value float32) (*tensor.RawTensor, error) {
		v, err := tensor.NewRaw(tensor.Shape{s.C}, tensor.Float32, tensor.CPU)
		if err != nil {
			return nil, err
		}
		data := v.AsFloat32()
		for i := range data {
			data[i] = value
		}
		return v, nil
	}
	gamma, err := channelVec(1)
	if err != nil {
		return nil, fmt.Errorf("build probes: %w", err)
	}
	beta, err := channelVec(0)
	if err != nil {
		return nil, fmt.Errorf("build probes: %w", err)
	}
	mean, err := channelVec(0)
	if err != nil {
		return nil, fmt.Errorf("build probes: %w", err)
	}
	variance, err := channelVec(1)
	if err != nil {
		return nil, fmt.Errorf("build probes: %w", err)
	}

	return map[string][]any{
		"add":        {input, other},
		"sub":        {input, other},
		"mul":        {input, other},
		"div":        {input, other},
		"add_scalar": {input, float32(2)},
		"mul_scalar": {input, float32(2)},
		"relu":       {input},
		"conv2d":     {input, kernel, nil, 1, 1},
		"batch_norm": {input, gamma, beta, mean, variance, 1e-5},
		"max_pool2d": {input, 2, 2},
		"reshape":    {input, shape.Clone()},
		"clone":      {input},
		"empty_like": {input},
	}, nil
}

// fill writes a deterministic non-constant pattern, avoiding zeros in
// denominators.
func fill(r *tensor.RawTensor) {
	data := r.AsFloat32()
	for i := range data {
		data[i] = float32(i%7) + 1
	}
}
