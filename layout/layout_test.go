// Copyright 2025 Strided ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package layout_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/strided-ml/strided/backend/cpu"
	"github.com/strided-ml/strided/layout"
	"github.com/strided-ml/strided/tensor"
)

func TestPublicAPIWrapAndSweep(t *testing.T) {
	var buf bytes.Buffer
	checker := layout.New(&buf)
	reg := layout.TensorOps(cpu.New())
	reg.InstrumentAll(checker)

	input, err := tensor.NewRawFormat(tensor.Shape{2, 8, 4, 4}, tensor.Float32, tensor.CPU, tensor.ChannelsLast)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := reg.Call("relu", input); err != nil {
		t.Fatalf("relu should preserve channels_last: %v", err)
	}

	_, err = reg.Call("reshape", input, tensor.Shape{2, 8, 4, 4})
	var re *layout.RegressionError
	if !errors.As(err, &re) {
		t.Fatalf("reshape should lose channels_last, got %v", err)
	}
	if re.Op != "reshape" {
		t.Errorf("RegressionError.Op = %q, want %q", re.Op, "reshape")
	}

	violations, err := layout.Sweep(reg, layout.DefaultPolicy(), "reshape")
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("unexpected violations: %v", violations)
	}
}
