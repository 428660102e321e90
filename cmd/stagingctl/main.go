package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/ap-invoice-staging/internal/bootstrap"
	"github.com/jhoicas/ap-invoice-staging/internal/cli"
	"github.com/jhoicas/ap-invoice-staging/pkg/config"
	"github.com/jhoicas/ap-invoice-staging/pkg/logger"
)

func main() {
	cmd := cli.NewRootCommand(openBackend)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}

// openBackend logs a stderr para no mezclarlos con la salida del comando.
func openBackend(_ context.Context, opts *cli.RootOptions) (*cli.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "cli", Level: level, Output: os.Stderr})

	components, err := bootstrap.New(cfg, log)
	if err != nil {
		return nil, err
	}
	return &cli.Backend{
		Invoices: components.Invoices,
		Migrate:  components.Migrate,
		Close:    components.Close,
	}, nil
}
