package tensor

import (
	"testing"
)

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

func TestEmptyFormat(t *testing.T) {
	b := NewMockBackend()

	x := EmptyFormat[float32](Shape{10, 3, 32, 32}, b, ChannelsLast)
	assertEqualShape(t, Shape{10, 3, 32, 32}, x.Shape(), "EmptyFormat") // dimension order preserved
	assertStrides(t, []int{3072, 1, 96, 3}, x.Stride(), "EmptyFormat")

	y := Empty[float32](Shape{10, 3, 32, 32}, b)
	assertStrides(t, []int{3072, 1024, 32, 1}, y.Stride(), "Empty")
}

func TestClonePreservesLayout(t *testing.T) {
	b := NewMockBackend()
	x := EmptyFormat[float32](Shape{2, 3, 4, 4}, b, ChannelsLast)

	y := x.Clone()
	assertStrides(t, []int{48, 1, 12, 3}, y.Stride(), "Clone")
	if !y.IsContiguous(ChannelsLast) {
		t.Error("clone should stay channels-last")
	}
}

func TestEmptyLikePreservesLayout(t *testing.T) {
	b := NewMockBackend()
	x := EmptyFormat[float32](Shape{2, 3, 4, 4}, b, ChannelsLast)

	y := EmptyLike(x)
	assertStrides(t, x.Stride(), y.Stride(), "EmptyLike")

	z := ZerosLike(x)
	assertStrides(t, x.Stride(), z.Stride(), "ZerosLike")
}

func TestAtSetAcrossLayouts(t *testing.T) {
	b := NewMockBackend()
	contig := Empty[float32](Shape{2, 3, 4, 4}, b)
	data := contig.Data()
	for i := range data {
		data[i] = float32(i)
	}

	cl := contig.To(ChannelsLast)
	for n := 0; n < 2; n++ {
		for c := 0; c < 3; c++ {
			for h := 0; h < 4; h++ {
				for w := 0; w < 4; w++ {
					if contig.At(n, c, h, w) != cl.At(n, c, h, w) {
						t.Fatalf("logical element (%d,%d,%d,%d) differs across layouts", n, c, h, w)
					}
				}
			}
		}
	}

	cl.Set(99, 1, 2, 3, 0)
	if cl.At(1, 2, 3, 0) != 99 {
		t.Error("Set/At mismatch on channels-last tensor")
	}
}

func TestPointwisePreservesChannelsLast(t *testing.T) {
	b := NewMockBackend()
	x := Ones[float32](Shape{2, 3, 4, 4}, b).To(ChannelsLast)
	y := EmptyLike(x)
	for i := range y.Data() {
		y.Data()[i] = 2
	}

	z := x.Add(y)
	if !z.IsContiguous(ChannelsLast) || z.IsContiguous(Contiguous) {
		t.Errorf("pointwise op dropped channels-last: strides %v", z.Stride())
	}
	if z.At(1, 2, 3, 3) != 3 {
		t.Errorf("Add result wrong: got %v, want 3", z.At(1, 2, 3, 3))
	}

	s := x.MulScalar(float32(4))
	if !s.IsContiguous(ChannelsLast) {
		t.Errorf("scalar op dropped channels-last: strides %v", s.Stride())
	}
	if s.At(0, 0, 0, 0) != 4 {
		t.Errorf("MulScalar result wrong: got %v, want 4", s.At(0, 0, 0, 0))
	}
}

func TestReLUPreservesChannelsLast(t *testing.T) {
	b := NewMockBackend()
	x := Full[float32](Shape{2, 3, 4, 4}, -1, b).To(ChannelsLast)

	y := x.ReLU()
	if !y.IsContiguous(ChannelsLast) {
		t.Errorf("relu dropped channels-last: strides %v", y.Stride())
	}
	if y.At(0, 1, 2, 3) != 0 {
		t.Errorf("relu(-1) = %v, want 0", y.At(0, 1, 2, 3))
	}
}

func TestConv2DMatchesAcrossLayouts(t *testing.T) {
	b := NewMockBackend()

	input, err := FromSlice(seq(2*2*4*4), Shape{2, 2, 4, 4}, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	kernel, err := FromSlice(seq(3*2*3*3), Shape{3, 2, 3, 3}, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	out := New[float32](b.Conv2D(input.Raw(), kernel.Raw(), nil, 1, 1), b)
	outCL := New[float32](b.Conv2D(input.To(ChannelsLast).Raw(), kernel.Raw(), nil, 1, 1), b)

	assertEqualShape(t, Shape{2, 3, 4, 4}, out.Shape(), "conv2d output")
	if !outCL.IsContiguous(ChannelsLast) || outCL.IsContiguous(Contiguous) {
		t.Errorf("conv2d dropped channels-last: strides %v", outCL.Stride())
	}

	for n := 0; n < 2; n++ {
		for c := 0; c < 3; c++ {
			for h := 0; h < 4; h++ {
				for w := 0; w < 4; w++ {
					if out.At(n, c, h, w) != outCL.At(n, c, h, w) {
						t.Fatalf("conv2d result differs across layouts at (%d,%d,%d,%d): %v vs %v",
							n, c, h, w, out.At(n, c, h, w), outCL.At(n, c, h, w))
					}
				}
			}
		}
	}
}

func TestBatchNorm2DPreservesChannelsLast(t *testing.T) {
	b := NewMockBackend()
	input := Ones[float32](Shape{2, 3, 4, 4}, b).To(ChannelsLast)
	gamma := Ones[float32](Shape{3}, b)
	beta := Zeros[float32](Shape{3}, b)
	mean := Zeros[float32](Shape{3}, b)
	variance := Ones[float32](Shape{3}, b)

	out := New[float32](b.BatchNorm2D(input.Raw(), gamma.Raw(), beta.Raw(), mean.Raw(), variance.Raw(), 0), b)
	if !out.IsContiguous(ChannelsLast) {
		t.Errorf("batch_norm dropped channels-last: strides %v", out.Stride())
	}
	if out.At(0, 0, 0, 0) != 1 {
		t.Errorf("batch_norm((1-0)/sqrt(1)) = %v, want 1", out.At(0, 0, 0, 0))
	}
}

func TestMaxPool2DPreservesChannelsLast(t *testing.T) {
	b := NewMockBackend()
	input, err := FromSlice(seq(1*2*4*4), Shape{1, 2, 4, 4}, b)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	out := New[float32](b.MaxPool2D(input.To(ChannelsLast).Raw(), 2, 2), b)
	assertEqualShape(t, Shape{1, 2, 2, 2}, out.Shape(), "max_pool2d output")
	if !out.IsContiguous(ChannelsLast) {
		t.Errorf("max_pool2d dropped channels-last: strides %v", out.Stride())
	}
	// Max of the top-left 2x2 window of channel 0 is element (0,0,1,1) = 5.
	if out.At(0, 0, 0, 0) != 5 {
		t.Errorf("max_pool2d window max = %v, want 5", out.At(0, 0, 0, 0))
	}
}

func TestReshapeDropsLayout(t *testing.T) {
	b := NewMockBackend()
	x := Ones[float32](Shape{2, 3, 4, 4}, b).To(ChannelsLast)

	y := x.Reshape(2, 3, 16)
	assertEqualShape(t, Shape{2, 3, 16}, y.Shape(), "Reshape")
	if !y.IsContiguous(Contiguous) {
		t.Errorf("reshape output should be contiguous, strides %v", y.Stride())
	}

	// 4D -> 4D reshape also regresses to the default layout.
	z := x.Reshape(2, 3, 4, 4)
	if z.IsContiguous(ChannelsLast) && !z.IsContiguous(Contiguous) {
		t.Error("reshape should not preserve channels-last")
	}
	assertStrides(t, []int{48, 16, 4, 1}, z.Stride(), "reshape strides")
}

func TestFromSliceShapeMismatch(t *testing.T) {
	b := NewMockBackend()
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, b); err == nil {
		t.Error("expected error for shape/data mismatch")
	}
}

// seq returns [0, 1, ..., n-1] as float32.
func seq(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i)
	}
	return out
}
