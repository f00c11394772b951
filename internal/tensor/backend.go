package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Every operation is memory-format aware: outputs are laid out like the
// primary input (see the package doc for the preservation rules), and
// element access honors strides, so operands may arrive in any layout.
type Backend interface {
	// Name returns the backend name.
	Name() string

	// Device returns the compute device this backend drives.
	Device() Device

	// Element-wise binary operations. Operands must share a shape;
	// the output inherits the layout of a.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Element-wise scalar operations. The output inherits x's layout.
	AddScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor

	// ReLU applies max(0, x) element-wise, preserving layout.
	ReLU(x *RawTensor) *RawTensor

	// Conv2D performs 2D convolution.
	// Input [N, C_in, H, W], kernel [C_out, C_in, K_h, K_w] (kernel is
	// always read logically; its own layout does not matter), optional
	// bias [C_out] (nil for none). The output is allocated in the
	// input's memory format.
	Conv2D(input, kernel, bias *RawTensor, stride, padding int) *RawTensor

	// BatchNorm2D normalizes input [N, C, H, W] per channel with running
	// mean/variance [C] and affine gamma/beta [C], preserving the input's
	// memory format.
	BatchNorm2D(input, gamma, beta, mean, variance *RawTensor, eps float64) *RawTensor

	// MaxPool2D applies 2D max pooling over input [N, C, H, W],
	// preserving the input's memory format.
	MaxPool2D(input *RawTensor, kernelSize, stride int) *RawTensor

	// Reshape returns a tensor with a new shape over the same elements
	// in logical order. The result is always contiguous: reshaping is a
	// known layout-dropping operation (the checker exists to catch such
	// regressions in ops that should preserve layout).
	Reshape(t *RawTensor, newShape Shape) *RawTensor
}
