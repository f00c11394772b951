package layout

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strided-ml/strided/internal/backend/cpu"
)

func TestSweepFindsReshapeRegression(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	reg := TensorOps(cpu.New())
	reg.InstrumentAll(c)

	violations, err := Sweep(reg, DefaultPolicy())
	require.NoError(t, err)

	// Every format-preserving operator passes; reshape is the one op on
	// the standard surface that discards the input layout.
	require.Len(t, violations, 1)
	assert.Equal(t, "reshape", violations[0].Op)
	assert.True(t, violations[0].IsRegression())
	assert.Contains(t, buf.String(), "`reshape` got channels_last input")
}

func TestSweepUninstrumentedFindsNothing(t *testing.T) {
	reg := TensorOps(cpu.New())

	violations, err := Sweep(reg, DefaultPolicy())
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestSweepHonorsExclusions(t *testing.T) {
	c := New(&bytes.Buffer{})
	reg := TensorOps(cpu.New())
	reg.InstrumentAll(c)

	violations, err := Sweep(reg, DefaultPolicy(), "reshape")
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestSweepRejectsDegenerateProbe(t *testing.T) {
	reg := TensorOps(cpu.New())

	p := DefaultPolicy()
	p.Probe.C = 1
	_, err := Sweep(reg, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degenerate")
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name  string
		probe ProbeShape
		ok    bool
	}{
		{"default", ProbeShape{N: 2, C: 8, H: 4, W: 4}, true},
		{"batch of one", ProbeShape{N: 1, C: 2, H: 2, W: 2}, true},
		{"empty dim", ProbeShape{N: 0, C: 8, H: 4, W: 4}, false},
		{"single channel", ProbeShape{N: 2, C: 1, H: 4, W: 4}, false},
		{"unit spatial", ProbeShape{N: 2, C: 8, H: 1, W: 1}, false},
		{"unit height", ProbeShape{N: 2, C: 8, H: 1, W: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Policy{Probe: tt.probe}
			err := p.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := []byte("exclude: [reshape]\nfail_fast: true\nprobe:\n  n: 1\n  c: 2\n  h: 2\n  w: 2\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"reshape"}, p.Exclude)
	assert.True(t, p.FailFast)
	assert.Equal(t, ProbeShape{N: 1, C: 2, H: 2, W: 2}, p.Probe)

	// The policy exclusion keeps reshape out of the sweep.
	c := New(&bytes.Buffer{})
	reg := TensorOps(cpu.New())
	reg.InstrumentAll(c)
	violations, err := Sweep(reg, p)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestLoadPolicyDefaultsProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fail_fast: true\n"), 0o644))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy().Probe, p.Probe)
}

func TestLoadPolicyRejectsBadFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("probe: {c: 1}\n"), 0o644))
	_, err = LoadPolicy(path)
	assert.Error(t, err)
}
