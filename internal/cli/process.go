package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ap-invoice-staging/internal/application/dto"
	"github.com/jhoicas/ap-invoice-staging/internal/domain"
)

// ProcessOptions holds flags for the process command.
type ProcessOptions struct {
	*RootOptions
	OrgID     int64
	BatchID   int64
	StagingID int64
}

// NewProcessCommand creates the process command.
func NewProcessCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProcessOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Ejecuta validate → transfer → import sobre una factura, un lote o la org",
		Long: `Invoca el procedimiento de importación del ERP una sola vez.

Alcance: --staging-id tiene prioridad sobre --batch-id; sin ninguno se procesan
todas las facturas pendientes de la org. Código de retorno 0=success, 1=warning,
cualquier otro=error (exit code 1).

Example:
  stagingctl process --org-id 204 --batch-id 100`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.OrgID, "org-id", 0, "unidad operativa (requerido)")
	cmd.Flags().Int64Var(&opts.BatchID, "batch-id", 0, "lote a procesar")
	cmd.Flags().Int64Var(&opts.StagingID, "staging-id", 0, "factura individual")
	_ = cmd.MarkFlagRequired("org-id")

	return cmd
}

func runProcess(opts *ProcessOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	req := dto.ProcessRequest{OrgID: opts.OrgID}
	if cmd.Flags().Changed("batch-id") {
		req.BatchID = &opts.BatchID
	}
	if cmd.Flags().Changed("staging-id") {
		req.StagingID = &opts.StagingID
	}

	b, closeFn, err := opts.connect(cmd.Context(), out)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := b.Invoices.Process(cmd.Context(), req)
	if err != nil {
		return out.Fail(err)
	}
	if err := out.Success(res, func(w io.Writer) error { return renderProcess(w, res) }); err != nil {
		return err
	}
	if res.Status == dto.StatusError {
		return WrapExitError(ExitFailure, "process", &domain.ExternalProcedureError{
			ReturnCode: res.ReturnCode,
			Message:    res.Message,
		})
	}
	return nil
}
