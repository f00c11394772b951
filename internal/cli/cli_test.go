package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestInspectDefaultShape(t *testing.T) {
	out, err := execute(t, "inspect")
	require.NoError(t, err)

	assert.Contains(t, out, "shape: 10x3x32x32")
	assert.Contains(t, out, "contiguous strides:    [3072 1024 32 1]")
	assert.Contains(t, out, "channels_last strides: [3072 1 96 3]")
	assert.Contains(t, out, "x = x.to(channels_last)")
	assert.Contains(t, out, "x.stride()                     = [3072 1 96 3]")
}

func TestInspectDegenerateShapeNote(t *testing.T) {
	out, err := execute(t, "inspect", "--c", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "degenerate")
}

func TestInspectRejectsInvalidShape(t *testing.T) {
	_, err := execute(t, "inspect", "--n", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVerifyReportsReshape(t *testing.T) {
	out, err := execute(t, "verify")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "`reshape` got channels_last input")
	assert.Contains(t, out, "FAIL reshape (regression)")
}

func TestVerifyWithExclusionPasses(t *testing.T) {
	out, err := execute(t, "verify", "--exclude", "reshape")
	require.NoError(t, err)
	assert.Contains(t, out, "OK:")
}

func TestVerifyWithPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := []byte("exclude: [reshape]\nprobe:\n  n: 1\n  c: 2\n  h: 2\n  w: 2\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	out, err := execute(t, "verify", "--policy", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK:")
}

func TestVerifyRejectsMissingPolicy(t *testing.T) {
	_, err := execute(t, "verify", "--policy", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad", errors.New("inner"))))
}
