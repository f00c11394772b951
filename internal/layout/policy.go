package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy configures a verification sweep.
type Policy struct {
	// Exclude lists operator names left uninstrumented, in addition to
	// DefaultExclusions.
	Exclude []string `yaml:"exclude,omitempty"`

	// FailFast stops the sweep at the first violation instead of
	// collecting all of them.
	FailFast bool `yaml:"fail_fast,omitempty"`

	// Probe is the NCHW shape of the channels-last input tensors used to
	// exercise each operator.
	Probe ProbeShape `yaml:"probe"`
}

// ProbeShape is the NCHW probe tensor shape. The channel and spatial
// dimensions must be > 1, otherwise the probe is degenerate and cannot be
// distinguishably channels-last.
type ProbeShape struct {
	N int `yaml:"n"`
	C int `yaml:"c"`
	H int `yaml:"h"`
	W int `yaml:"w"`
}

// DefaultPolicy returns the policy used when no file is given.
func DefaultPolicy() *Policy {
	return &Policy{
		Probe: ProbeShape{N: 2, C: 8, H: 4, W: 4},
	}
}

// LoadPolicy reads a Policy from a YAML file. Unset probe dimensions fall
// back to the default probe.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}

	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects probe shapes that cannot be distinguishably
// channels-last.
func (p *Policy) Validate() error {
	s := p.Probe
	if s.N < 1 || s.C < 1 || s.H < 1 || s.W < 1 {
		return fmt.Errorf("probe shape %dx%dx%dx%d has empty dimensions", s.N, s.C, s.H, s.W)
	}
	if s.C < 2 || s.H < 2 || s.W < 2 {
		return fmt.Errorf("probe shape %dx%dx%dx%d is degenerate: need c, h, w > 1 for a distinguishable channels-last layout and valid pooling windows", s.N, s.C, s.H, s.W)
	}
	return nil
}
