package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/strided-ml/strided/internal/tensor"
)

func makeRaw(t *testing.T, shape tensor.Shape, format tensor.MemoryFormat) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRawFormat(shape, tensor.Float32, tensor.CPU, format)
	require.NoError(t, err)
	return raw
}

func TestContainsChannelsLast(t *testing.T) {
	cl := makeRaw(t, tensor.Shape{10, 3, 32, 32}, tensor.ChannelsLast)
	contig := makeRaw(t, tensor.Shape{10, 3, 32, 32}, tensor.Contiguous)

	assert.True(t, ContainsChannelsLast([]any{cl}))
	assert.False(t, ContainsChannelsLast([]any{contig}))
	assert.False(t, ContainsChannelsLast([]any{1, "x", 2.5, nil}))
	assert.False(t, ContainsChannelsLast(nil))
}

func TestContainsChannelsLastAfterConversion(t *testing.T) {
	cl := makeRaw(t, tensor.Shape{2, 3, 4, 4}, tensor.ChannelsLast)
	require.True(t, ContainsChannelsLast([]any{cl}))

	back, err := cl.To(tensor.Contiguous)
	require.NoError(t, err)
	assert.False(t, ContainsChannelsLast([]any{back}))
}

func TestContainsChannelsLastNestedSequences(t *testing.T) {
	cl := makeRaw(t, tensor.Shape{2, 3, 4, 4}, tensor.ChannelsLast)

	assert.True(t, ContainsChannelsLast([]any{1, []any{"pad", []any{cl}}}))
	assert.False(t, ContainsChannelsLast([]any{[]any{[]any{}}, 7}))
}

// Degenerate shapes satisfy both layout predicates at once, so the scan
// must treat them as not distinguishably channels-last, however they were
// created.
func TestContainsChannelsLastDegenerateShapes(t *testing.T) {
	shapes := []tensor.Shape{
		{2, 1, 4, 4}, // N1HW
		{2, 3, 1, 1}, // NC11
		{1, 1, 1, 1},
	}
	for _, shape := range shapes {
		for _, format := range []tensor.MemoryFormat{tensor.Contiguous, tensor.ChannelsLast} {
			raw := makeRaw(t, shape, format)
			assert.False(t, ContainsChannelsLast([]any{raw}),
				"shape %v created %s should be ambiguous, not channels-last", shape, format)
		}
	}
}

// A tensor created channels-last is distinguishable exactly when stepping
// over channels is observable (c > 1) and the channel stride differs from
// the default (h*w > 1).
func TestScanChannelsLastProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 3).Draw(rt, "n")
		c := rapid.IntRange(1, 4).Draw(rt, "c")
		h := rapid.IntRange(1, 4).Draw(rt, "h")
		w := rapid.IntRange(1, 4).Draw(rt, "w")

		raw, err := tensor.NewRawFormat(tensor.Shape{n, c, h, w}, tensor.Float32, tensor.CPU, tensor.ChannelsLast)
		if err != nil {
			rt.Fatalf("NewRawFormat failed: %v", err)
		}

		want := c > 1 && h*w > 1
		if got := ContainsChannelsLast([]any{raw}); got != want {
			rt.Fatalf("scan(%dx%dx%dx%d channels-last) = %v, want %v (strides %v)",
				n, c, h, w, got, want, raw.Strides())
		}
	})
}
