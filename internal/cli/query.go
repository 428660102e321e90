package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <staging_id>",
		Short: "Muestra el process_flag de una factura en staging",
		Long: `Muestra el process_flag actual de la cabecera:
N=New, V=Validated, E=Error, P=Processed, I=Interfaced, X=Cancelled.

Example:
  stagingctl status 1042`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, args[0], cmd)
		},
	}
}

func runStatus(opts *RootOptions, rawID string, cmd *cobra.Command) error {
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

	st, err := b.Invoices.GetStatus(cmd.Context(), stagingID)
	if err != nil {
		return out.Fail(err)
	}
	return out.Success(st, func(w io.Writer) error { return renderStatus(w, st) })
}

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	InvoiceNum string
	OrgID      int64
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Busca una factura por número y muestra cabecera y líneas",
		Long: `Busca una factura por número. Sin --org-id, si el número existe en varias
unidades operativas se devuelve la cargada más recientemente.

Example:
  stagingctl search --invoice-num INV-2024-001 --org-id 204`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.InvoiceNum, "invoice-num", "", "número de factura (requerido)")
	cmd.Flags().Int64Var(&opts.OrgID, "org-id", 0, "unidad operativa")
	_ = cmd.MarkFlagRequired("invoice-num")

	return cmd
}

func runSearch(opts *SearchOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	var orgID *int64
	if cmd.Flags().Changed("org-id") {
		orgID = &opts.OrgID
	}

	b, closeFn, err := opts.connect(cmd.Context(), out)
	if err != nil {
		return err
	}
	defer closeFn()

	inv, err := b.Invoices.Search(cmd.Context(), opts.InvoiceNum, orgID)
	if err != nil {
		return out.Fail(err)
	}
	out.VerboseLog("found staging_id=%d with %d line(s)", inv.StagingID, len(inv.Lines))
	return out.Success(inv, func(w io.Writer) error { return renderSearch(w, inv) })
}
