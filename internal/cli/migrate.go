package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crea las tablas y secuencias de staging si no existen",
		Long: `Aplica el DDL embebido (xxap_invoice_hdr_stg, xxap_invoice_lines_stg y sus
secuencias). Es idempotente.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd)
		},
	}
}

func runMigrate(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	b, closeFn, err := opts.connect(cmd.Context(), out)
	if err != nil {
		return err
	}
	defer closeFn()

	if b.Migrate == nil {
		_ = out.Error("UNSUPPORTED", "backend does not support migrations")
		return NewExitError(ExitCommandError, "migrate unsupported")
	}
	if err := b.Migrate(cmd.Context()); err != nil {
		_ = out.Error("MIGRATION_FAILED", err.Error())
		return WrapExitError(ExitCommandError, "migrate", err)
	}
	return out.Success(map[string]bool{"migrated": true}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "Staging schema is up to date")
		return err
	})
}
