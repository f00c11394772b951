package layout

import (
	"fmt"
	"sort"

	"github.com/strided-ml/strided/internal/tensor"
)

// DefaultExclusions lists operator names the checker never wraps: pure
// attribute accessors plus the deliberate layout-conversion operators
// (`to`, `contiguous`), whose whole purpose may be to change the layout.
var DefaultExclusions = []string{
	"stride", "shape", "numel", "dim", "device", "dtype", "is_contiguous",
	"to", "contiguous",
}

type entry struct {
	op      Op
	sealed  bool // accessor entries refuse replacement
	wrapped bool
}

// Registry is an explicit, caller-owned operator namespace: name -> Op.
// It is the statically-typed analog of patching a framework namespace in
// place: interception happens by replacing registry entries, not by
// reflection over foreign internals.
//
// A Registry is not safe for concurrent mutation; complete instrumentation
// before sharing it. Calling registered ops afterwards is safe from any
// goroutine.
type Registry struct {
	name    string
	entries map[string]*entry
}

// NewRegistry creates an empty registry with a diagnostic name.
func NewRegistry(name string) *Registry {
	return &Registry{
		name:    name,
		entries: make(map[string]*entry),
	}
}

// Name returns the registry's diagnostic name.
func (r *Registry) Name() string {
	return r.name
}

// Register adds or replaces a wrappable operator.
func (r *Registry) Register(name string, op Op) {
	r.entries[name] = &entry{op: op}
}

// RegisterAccessor adds a sealed entry. Sealed entries can be called but
// never replaced; InstrumentAll logs and skips them.
func (r *Registry) RegisterAccessor(name string, op Op) {
	r.entries[name] = &entry{op: op, sealed: true}
}

// Get returns the operator registered under name.
func (r *Registry) Get(name string) (Op, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.op, true
}

// Call invokes the operator registered under name.
func (r *Registry) Call(name string, args ...any) (any, error) {
	op, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("registry %s: no operator %q", r.name, name)
	}
	return op(args...)
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsInstrumented reports whether the entry has been wrapped.
func (r *Registry) IsInstrumented(name string) bool {
	e, ok := r.entries[name]
	return ok && e.wrapped
}

// IsSealed reports whether the entry refuses replacement.
func (r *Registry) IsSealed(name string) bool {
	e, ok := r.entries[name]
	return ok && e.sealed
}

// InstrumentAll replaces every wrappable entry with its checked wrapper
// and returns the number of entries instrumented.
//
// Skipped without wrapping: names in exclude or DefaultExclusions, names
// with a "_" prefix, and sealed entries. A sealed entry that is not
// explicitly excluded is reported to the checker's diagnostic writer and
// skipped, so one unreplaceable member never aborts the pass.
//
// Instrumentation is permanent for the registry's lifetime. Running
// InstrumentAll twice would double-wrap; don't.
func (r *Registry) InstrumentAll(c *Checker, exclude ...string) int {
	excluded := make(map[string]bool, len(DefaultExclusions)+len(exclude))
	for _, name := range DefaultExclusions {
		excluded[name] = true
	}
	for _, name := range exclude {
		excluded[name] = true
	}

	count := 0
	for _, name := range r.Names() {
		if excluded[name] || len(name) > 0 && name[0] == '_' {
			continue
		}
		e := r.entries[name]
		if e.sealed {
			fmt.Fprintf(c.out, "cannot instrument %q: sealed entry\n", name)
			continue
		}
		e.op = c.Wrap(name, e.op)
		e.wrapped = true
		count++
	}
	return count
}

// TensorOps builds the standard operator registry over a backend, the
// equivalent of instrumenting a framework's tensor namespace. Accessors
// are registered sealed; everything else is wrappable.
func TensorOps(b tensor.Backend) *Registry {
	r := NewRegistry("tensor_ops")

	// Pointwise
	r.Register("add", func(args ...any) (any, error) {
		x, y, err := twoTensors("add", args)
		if err != nil {
			return nil, err
		}
		return b.Add(x, y), nil
	})
	r.Register("sub", func(args ...any) (any, error) {
		x, y, err := twoTensors("sub", args)
		if err != nil {
			return nil, err
		}
		return b.Sub(x, y), nil
	})
	r.Register("mul", func(args ...any) (any, error) {
		x, y, err := twoTensors("mul", args)
		if err != nil {
			return nil, err
		}
		return b.Mul(x, y), nil
	})
	r.Register("div", func(args ...any) (any, error) {
		x, y, err := twoTensors("div", args)
		if err != nil {
			return nil, err
		}
		return b.Div(x, y), nil
	})
	r.Register("add_scalar", func(args ...any) (any, error) {
		x, err := argTensor("add_scalar", args, 0)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, fmt.Errorf("add_scalar: missing scalar argument")
		}
		return b.AddScalar(x, args[1]), nil
	})
	r.Register("mul_scalar", func(args ...any) (any, error) {
		x, err := argTensor("mul_scalar", args, 0)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, fmt.Errorf("mul_scalar: missing scalar argument")
		}
		return b.MulScalar(x, args[1]), nil
	})
	r.Register("relu", func(args ...any) (any, error) {
		x, err := argTensor("relu", args, 0)
		if err != nil {
			return nil, err
		}
		return b.ReLU(x), nil
	})

	// Structured ops
	r.Register("conv2d", func(args ...any) (any, error) {
		input, err := argTensor("conv2d", args, 0)
		if err != nil {
			return nil, err
		}
		kernel, err := argTensor("conv2d", args, 1)
		if err != nil {
			return nil, err
		}
		bias, err := argTensorOrNil("conv2d", args, 2)
		if err != nil {
			return nil, err
		}
		stride, err := argInt("conv2d", args, 3)
		if err != nil {
			return nil, err
		}
		padding, err := argInt("conv2d", args, 4)
		if err != nil {
			return nil, err
		}
		return b.Conv2D(input, kernel, bias, stride, padding), nil
	})
	r.Register("batch_norm", func(args ...any) (any, error) {
		ts := make([]*tensor.RawTensor, 5)
		for i := range ts {
			t, err := argTensor("batch_norm", args, i)
			if err != nil {
				return nil, err
			}
			ts[i] = t
		}
		eps, ok := argAt(args, 5).(float64)
		if !ok {
			return nil, fmt.Errorf("batch_norm: argument 5 must be a float64 epsilon")
		}
		return b.BatchNorm2D(ts[0], ts[1], ts[2], ts[3], ts[4], eps), nil
	})
	r.Register("max_pool2d", func(args ...any) (any, error) {
		input, err := argTensor("max_pool2d", args, 0)
		if err != nil {
			return nil, err
		}
		kernelSize, err := argInt("max_pool2d", args, 1)
		if err != nil {
			return nil, err
		}
		stride, err := argInt("max_pool2d", args, 2)
		if err != nil {
			return nil, err
		}
		return b.MaxPool2D(input, kernelSize, stride), nil
	})
	r.Register("reshape", func(args ...any) (any, error) {
		input, err := argTensor("reshape", args, 0)
		if err != nil {
			return nil, err
		}
		shape, ok := argAt(args, 1).(tensor.Shape)
		if !ok {
			return nil, fmt.Errorf("reshape: argument 1 must be a tensor.Shape")
		}
		return b.Reshape(input, shape), nil
	})

	// Creation/conversion
	r.Register("clone", func(args ...any) (any, error) {
		x, err := argTensor("clone", args, 0)
		if err != nil {
			return nil, err
		}
		return x.Clone(), nil
	})
	r.Register("empty_like", func(args ...any) (any, error) {
		x, err := argTensor("empty_like", args, 0)
		if err != nil {
			return nil, err
		}
		return tensor.NewRawLike(x)
	})
	r.Register("to", func(args ...any) (any, error) {
		x, err := argTensor("to", args, 0)
		if err != nil {
			return nil, err
		}
		format, ok := argAt(args, 1).(tensor.MemoryFormat)
		if !ok {
			return nil, fmt.Errorf("to: argument 1 must be a tensor.MemoryFormat")
		}
		return x.To(format)
	})
	r.Register("contiguous", func(args ...any) (any, error) {
		x, err := argTensor("contiguous", args, 0)
		if err != nil {
			return nil, err
		}
		return x.To(tensor.Contiguous)
	})

	// Accessors: callable, never wrapped.
	r.RegisterAccessor("stride", func(args ...any) (any, error) {
		x, err := argTensor("stride", args, 0)
		if err != nil {
			return nil, err
		}
		return x.Strides(), nil
	})
	r.RegisterAccessor("shape", func(args ...any) (any, error) {
		x, err := argTensor("shape", args, 0)
		if err != nil {
			return nil, err
		}
		return x.Shape(), nil
	})
	r.RegisterAccessor("numel", func(args ...any) (any, error) {
		x, err := argTensor("numel", args, 0)
		if err != nil {
			return nil, err
		}
		return x.NumElements(), nil
	})
	r.RegisterAccessor("dim", func(args ...any) (any, error) {
		x, err := argTensor("dim", args, 0)
		if err != nil {
			return nil, err
		}
		return x.Dim(), nil
	})
	r.RegisterAccessor("is_contiguous", func(args ...any) (any, error) {
		x, err := argTensor("is_contiguous", args, 0)
		if err != nil {
			return nil, err
		}
		format, ok := argAt(args, 1).(tensor.MemoryFormat)
		if !ok {
			format = tensor.Contiguous
		}
		return x.IsContiguous(format), nil
	})

	return r
}

func twoTensors(op string, args []any) (*tensor.RawTensor, *tensor.RawTensor, error) {
	x, err := argTensor(op, args, 0)
	if err != nil {
		return nil, nil, err
	}
	y, err := argTensor(op, args, 1)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func argAt(args []any, i int) any {
	if i >= len(args) {
		return nil
	}
	return args[i]
}

func argTensor(op string, args []any, i int) (*tensor.RawTensor, error) {
	t, ok := argAt(args, i).(*tensor.RawTensor)
	if !ok {
		return nil, fmt.Errorf("%s: argument %d must be a *tensor.RawTensor, got %T", op, i, argAt(args, i))
	}
	return t, nil
}

func argTensorOrNil(op string, args []any, i int) (*tensor.RawTensor, error) {
	a := argAt(args, i)
	if a == nil {
		return nil, nil
	}
	t, ok := a.(*tensor.RawTensor)
	if !ok {
		return nil, fmt.Errorf("%s: argument %d must be a *tensor.RawTensor or nil, got %T", op, i, a)
	}
	return t, nil
}

func argInt(op string, args []any, i int) (int, error) {
	v, ok := argAt(args, i).(int)
	if !ok {
		return 0, fmt.Errorf("%s: argument %d must be an int, got %T", op, i, argAt(args, i))
	}
	return v, nil
}
