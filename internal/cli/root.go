package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ap-invoice-staging/internal/application/staging"
)

// Backend lo que los comandos necesitan de la base: el servicio de staging y el DDL.
type Backend struct {
	Invoices *staging.InvoiceService
	Migrate  func(ctx context.Context) error
	Close    func()
}

// BackendFactory abre el backend bajo demanda; cada comando lo cierra al terminar.
type BackendFactory func(ctx context.Context, opts *RootOptions) (*Backend, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	Open BackendFactory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for stagingctl.
func NewRootCommand(open BackendFactory) *cobra.Command {
	opts := &RootOptions{Open: open}

	cmd := &cobra.Command{
		Use:   "stagingctl",
		Short: "Operaciones sobre facturas AP en staging",
		Long: `Consulta, carga, procesa y cancela facturas de proveedor en las tablas
de staging del ERP. Usa la misma configuración (DB_*, ERP_*) que la API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewProcessCommand(opts))
	cmd.AddCommand(NewCancelCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// connect abre el backend; un fallo aquí es error de comando (2), no de negocio.
func (o *RootOptions) connect(ctx context.Context, out *OutputFormatter) (*Backend, func(), error) {
	if o.Open == nil {
		return nil, nil, NewExitError(ExitCommandError, "no backend configured")
	}
	b, err := o.Open(ctx, o)
	if err != nil {
		_ = out.Error("BACKEND_UNAVAILABLE", err.Error())
		return nil, nil, WrapExitError(ExitCommandError, "open backend", err)
	}
	closeFn := func() {
		if b.Close != nil {
			b.Close()
		}
	}
	return b, closeFn, nil
}
