package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCancelCommand creates the cancel command.
func NewCancelCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <staging_id>",
		Short: "Cancela una factura en staging (sólo desde New o Error)",
		Long: `Marca cabecera y líneas con process_flag X en una única transacción.
Facturas en V, P, I o X se rechazan sin modificar nada.

Example:
  stagingctl cancel 1042`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCancel(rootOpts, args[0], cmd)
		},
	}
}

func runCancel(opts *RootOptions, rawID string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	stagingID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		_ = out.Error("VALIDATION", "Invalid staging_id format")
		return NewExitError(ExitCommandError, "invalid staging_id")
	}

	b, closeFn, err := opts.connect(cmd.Context(), out)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := b.Invoices.Cancel(cmd.Context(), stagingID)
	if err != nil {
		return out.Fail(err)
	}
	return out.Success(res, func(w io.Writer) error { return renderCancel(w, res) })
}
