package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strided-ml/strided/internal/tensor"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	N, C, H, W int
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print stride tables and a layout conversion round trip",
		Long: `Print the contiguous and channels-last stride tables for an NCHW
shape, then allocate a tensor and convert it between layouts, showing the
strides and contiguity predicates at each step.

Example:
  strided inspect
  strided inspect --n 2 --c 8 --h 4 --w 4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.N, "n", 10, "batch size")
	cmd.Flags().IntVar(&opts.C, "c", 3, "channels")
	cmd.Flags().IntVar(&opts.H, "h", 32, "height")
	cmd.Flags().IntVar(&opts.W, "w", 32, "width")

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	shape := tensor.Shape{opts.N, opts.C, opts.H, opts.W}
	if err := shape.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid shape", err)
	}

	contig, err := shape.StridesFor(tensor.Contiguous)
	if err != nil {
		return WrapExitError(ExitCommandError, "compute strides", err)
	}
	cl, err := shape.StridesFor(tensor.ChannelsLast)
	if err != nil {
		return WrapExitError(ExitCommandError, "compute strides", err)
	}

	fmt.Fprintf(out, "shape: %dx%dx%dx%d\n", opts.N, opts.C, opts.H, opts.W)
	fmt.Fprintf(out, "contiguous strides:    %v\n", contig)
	fmt.Fprintf(out, "channels_last strides: %v\n", cl)
	fmt.Fprintln(out)

	x, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		return WrapExitError(ExitCommandError, "allocate tensor", err)
	}
	fmt.Fprintf(out, "x = empty(%v)\n", shape)
	fmt.Fprintf(out, "x.is_contiguous()              = %v\n", x.IsContiguous(tensor.Contiguous))
	fmt.Fprintf(out, "x.is_contiguous(channels_last) = %v\n", x.IsContiguous(tensor.ChannelsLast))

	x, err = x.To(tensor.ChannelsLast)
	if err != nil {
		return WrapExitError(ExitCommandError, "convert to channels_last", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "x = x.to(channels_last)\n")
	fmt.Fprintf(out, "x.stride()                     = %v\n", x.Strides())
	fmt.Fprintf(out, "x.is_contiguous()              = %v\n", x.IsContiguous(tensor.Contiguous))
	fmt.Fprintf(out, "x.is_contiguous(channels_last) = %v\n", x.IsContiguous(tensor.ChannelsLast))

	x, err = x.To(tensor.Contiguous)
	if err != nil {
		return WrapExitError(ExitCommandError, "convert to contiguous", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "x = x.to(contiguous)\n")
	fmt.Fprintf(out, "x.stride()                     = %v\n", x.Strides())
	fmt.Fprintf(out, "x.is_contiguous()              = %v\n", x.IsContiguous(tensor.Contiguous))

	if opts.C == 1 || opts.H*opts.W == 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "note: this shape is degenerate, both contiguity predicates hold for every layout")
	}

	return nil
}
