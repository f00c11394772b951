// Copyright 2025 Strided ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/strided-ml/strided/backend/cpu"
	"github.com/strided-ml/strided/tensor"
)

func TestPublicAPIFormats(t *testing.T) {
	backend := cpu.New()

	x := tensor.EmptyFormat[float32](tensor.Shape{10, 3, 32, 32}, backend, tensor.ChannelsLast)

	want := []int{3072, 1, 96, 3}
	got := x.Stride()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Stride() = %v, want %v", got, want)
		}
	}
	if !x.IsContiguous(tensor.ChannelsLast) {
		t.Error("expected channels_last contiguity")
	}
	if x.IsContiguous(tensor.Contiguous) {
		t.Error("did not expect default contiguity")
	}

	y := x.To(tensor.Contiguous)
	if !y.IsContiguous(tensor.Contiguous) {
		t.Error("To(Contiguous) should produce a contiguous tensor")
	}
}

func TestPublicAPIOpsPreserveLayout(t *testing.T) {
	backend := cpu.New()

	x := tensor.EmptyFormat[float32](tensor.Shape{2, 8, 4, 4}, backend, tensor.ChannelsLast)
	y := x.ReLU()
	if !y.IsContiguous(tensor.ChannelsLast) {
		t.Error("ReLU should preserve the channels_last layout")
	}

	z := x.Reshape(2, 8, 16, 1)
	if !z.IsContiguous(tensor.Contiguous) {
		t.Error("Reshape should return a contiguous tensor")
	}
}
