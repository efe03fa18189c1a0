package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

type migrateCmd struct {
	steps int
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "migraciones del esquema PostgreSQL" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate up|down|version [-steps n]

  Aplica (up), revierte n pasos (down) o muestra la versión actual del esquema embebido.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.steps, "steps", 1, "pasos a revertir con down")
}

func (c *migrateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("uso: %s", c.Usage())
	}
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	url := cfg.DB.ConnectionString()

	switch f.Arg(0) {
	case "up":
		applied, err := postgres.MigrateUp(url)
		if err != nil {
			return fail(err)
		}
		if !applied {
			fmt.Println("Esquema al día")
			return subcommands.ExitSuccess
		}
		fmt.Println("Migraciones aplicadas")
	case "down":
		if c.steps <= 0 {
			return usage("-steps debe ser positivo")
		}
		if err := postgres.MigrateDown(url, c.steps); err != nil {
			return fail(err)
		}
		fmt.Printf("%d migraciones revertidas\n", c.steps)
	case "version":
		version, dirty, err := postgres.MigrationVersion(url)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("versión %d (dirty=%t)\n", version, dirty)
	default:
		return usage("acción desconocida: %s", f.Arg(0))
	}
	return subcommands.ExitSuccess
}
