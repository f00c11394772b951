package cli

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/strided-ml/strided/internal/backend/cpu"
	"github.com/strided-ml/strided/internal/layout"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	PolicyPath string
	Exclude    []string
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Sweep the operator registry for channels-last regressions",
		Long: `Instrument every wrappable operator in the standard registry and call
each one with channels-last probe inputs. Operators that return a 4D
tensor in the default layout are reported as violations and the command
exits non-zero.

Example:
  strided verify
  strided verify --policy ./policy.yaml --exclude reshape`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.PolicyPath, "policy", "", "path to a YAML verification policy")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "operator names to leave unchecked")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	policy := layout.DefaultPolicy()
	if opts.PolicyPath != "" {
		var err error
		policy, err = layout.LoadPolicy(opts.PolicyPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "load policy", err)
		}
	}

	runID := uuid.Must(uuid.NewV7()).String()
	slog.Info("verification run",
		"id", runID,
		"probe", fmt.Sprintf("%dx%dx%dx%d", policy.Probe.N, policy.Probe.C, policy.Probe.H, policy.Probe.W))

	reg := layout.TensorOps(cpu.New())
	checker := layout.New(out)
	instrumented := reg.InstrumentAll(checker, opts.Exclude...)
	slog.Debug("registry instrumented", "ops", instrumented, "total", len(reg.Names()))

	violations, err := layout.Sweep(reg, policy, opts.Exclude...)
	if err != nil {
		return WrapExitError(ExitCommandError, "sweep failed", err)
	}

	if len(violations) == 0 {
		fmt.Fprintf(out, "OK: %d instrumented operators hold the channels_last invariant (run %s)\n",
			instrumented, runID)
		return nil
	}

	fmt.Fprintln(out)
	for _, v := range violations {
		kind := "error"
		if v.IsRegression() {
			kind = "regression"
		}
		fmt.Fprintf(out, "FAIL %s (%s): %v\n", v.Op, kind, v.Err)
	}
	return NewExitError(ExitFailure,
		fmt.Sprintf("%d of %d operators violated the channels_last invariant (run %s)",
			len(violations), instrumented, runID))
}
