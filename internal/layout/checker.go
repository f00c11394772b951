package layout

import (
	"fmt"
	"io"
	"os"

	"github.com/strided-ml/strided/internal/tensor"
)

// RegressionError reports an operator that accepted a channels-last input
// and returned a 4D output that regressed to the default layout. It marks
// a defect in the operator, not a transient condition; retrying is
// meaningless.
type RegressionError struct {
	Op string
}

// Error implements the error interface.
func (e *RegressionError) Error() string {
	return fmt.Sprintf("operator %q lost channels_last layout", e.Op)
}

// Checker wraps operators with the layout-invariant check. Diagnostics are
// written to the configured writer; they are a human-oriented side channel,
// never a substitute for the returned errors.
type Checker struct {
	out io.Writer
}

// New creates a Checker writing diagnostics to out (os.Stdout when nil).
func New(out io.Writer) *Checker {
	if out == nil {
		out = os.Stdout
	}
	return &Checker{out: out}
}

// Wrap returns an operator with the same calling convention as op that
// enforces the layout invariant:
//
//  1. Record whether any input tensor is distinguishably channels-last.
//  2. Call op. If it fails, dump the operator name and arguments to the
//     diagnostic writer and return the original error unchanged. The
//     dump annotates, it never swallows.
//  3. If the inputs were channels-last and the result is a 4D tensor that
//     is not channels-last contiguous, dump a violation notice plus the
//     arguments and fail with a *RegressionError naming the operator.
//  4. Otherwise return the result unchanged.
func (c *Checker) Wrap(name string, op Op) Op {
	return func(args ...any) (any, error) {
		wasChannelsLast := ContainsChannelsLast(args)

		result, err := op(args...)
		if err != nil {
			fmt.Fprintf(c.out, "`%s` inputs are:\n", name)
			c.DumpArgs(args, "")
			fmt.Fprintln(c.out, "-------------------")
			return nil, err
		}

		if wasChannelsLast {
			if t, ok := result.(Strided); ok && t.Dim() == 4 && !t.IsContiguous(tensor.ChannelsLast) {
				fmt.Fprintf(c.out, "`%s` got channels_last input, but output is not channels_last: %v %v %s %s\n",
					name, t.Shape(), t.Strides(), t.Device(), t.DType())
				fmt.Fprintf(c.out, "`%s` inputs are:\n", name)
				c.DumpArgs(args, "")
				return nil, &RegressionError{Op: name}
			}
		}

		return result, nil
	}
}

// DumpArgs prints a structured dump of the arguments: tensors show their
// strides, shape, device and dtype; nested sequences are dumped recursively
// with increasing indentation; anything else is printed as-is.
func (c *Checker) DumpArgs(args []any, indent string) {
	for _, a := range args {
		switch v := a.(type) {
		case Strided:
			fmt.Fprintf(c.out, "%s %v %v %s %s\n", indent, v.Strides(), v.Shape(), v.Device(), v.DType())
		case []any:
			fmt.Fprintf(c.out, "%s %T\n", indent, v)
			c.DumpArgs(v, indent+"    ")
		default:
			fmt.Fprintf(c.out, "%s %v\n", indent, a)
		}
	}
}
