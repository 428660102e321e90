package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ap-invoice-staging/internal/application/dto"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	File     string
	Encoding string
	UserID   int64
	DryRun   bool
}

// LoadResult resultado por factura del CSV.
type LoadResult struct {
	InvoiceNum     string `json:"invoice_num"`
	OrgID          int64  `json:"org_id"`
	StagingID      int64  `json:"staging_id,omitempty"`
	LinesRequested int    `json:"lines_requested"`
	LinesPersisted int    `json:"lines_persisted"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// LoadSummary salida completa de la carga.
type LoadSummary struct {
	Invoices []LoadResult `json:"invoices"`
	Loaded   int          `json:"loaded"`
	Failed   int          `json:"failed"`
	DryRun   bool         `json:"dry_run"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Carga facturas desde un CSV a staging con process_flag N",
		Long: `Carga facturas desde un CSV con una fila por línea. Las filas consecutivas con
el mismo org_id, invoice_num y vendor_num forman una factura; una fila con
line_number vacío crea sólo la cabecera.

Columnas obligatorias: invoice_num, invoice_date, invoice_amount, vendor_num,
vendor_site_code, org_id. Opcionales: invoice_type, currency_code, batch_id,
terms_name, description, gl_date, line_number, line_type, line_amount,
line_description, dist_code_ccid, account_code, tax_code.

Cada factura se crea por separado: un fallo no revierte las anteriores.

Example:
  stagingctl load --file facturas.csv --encoding latin1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", `CSV a cargar ("-" para stdin)`)
	cmd.Flags().StringVar(&opts.Encoding, "encoding", "utf-8", "encoding del archivo (utf-8|latin1|windows-1252)")
	cmd.Flags().Int64Var(&opts.UserID, "user-id", 0, "created_by de las cabeceras")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "sólo parsea y muestra lo que se cargaría")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runLoad(opts *LoadOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	var src io.Reader = cmd.InOrStdin()
	if opts.File != "-" {
		f, err := os.Open(opts.File)
		if err != nil {
			_ = out.Error("INPUT", err.Error())
			return WrapExitError(ExitCommandError, "open input", err)
		}
		defer f.Close()
		src = f
	}
	decoded, err := decodeInput(src, opts.Encoding)
	if err != nil {
		_ = out.Error("INPUT", err.Error())
		return WrapExitError(ExitCommandError, "decode input", err)
	}
	reqs, err := ParseInvoices(decoded)
	if err != nil {
		_ = out.Error("INPUT", err.Error())
		return WrapExitError(ExitCommandError, "parse input", err)
	}
	out.VerboseLog("parsed %d invoice(s) from %s", len(reqs), opts.File)

	if cmd.Flags().Changed("user-id") {
		for i := range reqs {
			reqs[i].UserID = &opts.UserID
		}
	}

	summary := LoadSummary{DryRun: opts.DryRun, Invoices: make([]LoadResult, 0, len(reqs))}
	if opts.DryRun {
		for _, req := range reqs {
			summary.Invoices = append(summary.Invoices, LoadResult{
				InvoiceNum:     req.InvoiceNum,
				OrgID:          req.OrgID,
				LinesRequested: len(req.Lines),
				Status:         "pending",
				Message:        "dry run",
			})
		}
		return out.Success(summary, func(w io.Writer) error { return renderLoad(w, summary) })
	}

	b, closeFn, err := opts.connect(cmd.Context(), out)
	if err != nil {
		return err
	}
	defer closeFn()

	for _, req := range reqs {
		res := LoadResult{InvoiceNum: req.InvoiceNum, OrgID: req.OrgID, LinesRequested: len(req.Lines)}
		created, err := b.Invoices.Create(cmd.Context(), req)
		switch {
		case created != nil:
			res.StagingID = created.StagingID
			res.LinesPersisted = created.LinesPersisted
			res.Status = created.Status
			res.Message = created.Message
		case err != nil:
			res.Status = dto.StatusError
			res.Message = err.Error()
		}
		if err != nil {
			summary.Failed++
			out.VerboseLog("invoice %s: %v", req.InvoiceNum, err)
		} else {
			summary.Loaded++
		}
		summary.Invoices = append(summary.Invoices, res)
	}

	if err := out.Success(summary, func(w io.Writer) error { return renderLoad(w, summary) }); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d invoice(s) failed", summary.Failed, len(reqs)))
	}
	return nil
}

func renderLoad(w io.Writer, s LoadSummary) error {
	for _, r := range s.Invoices {
		id := "-"
		if r.StagingID != 0 {
			id = fmt.Sprintf("%d", r.StagingID)
		}
		fmt.Fprintf(w, "  %-8s%-20s%-12s%d/%d  %s\n",
			r.Status, r.InvoiceNum, id, r.LinesPersisted, r.LinesRequested, r.Message)
	}
	if s.DryRun {
		_, err := fmt.Fprintf(w, "Dry run: %d invoice(s) parsed, nothing written\n", len(s.Invoices))
		return err
	}
	_, err := fmt.Fprintf(w, "Loaded %d of %d invoice(s)\n", s.Loaded, len(s.Invoices))
	return err
}
