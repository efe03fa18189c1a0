// ledgerctl opera el libro de stock desde la terminal: reportes, historial, aperturas,
// purga de movimientos, migraciones y tokens de desarrollo.
//
// Uso: ledgerctl <comando> [flags]. Lee la misma configuración que la API (env o .env).
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&reportCmd{}, "reportes")
	commander.Register(&historyCmd{}, "reportes")
	commander.Register(&setOpeningCmd{}, "libro")
	commander.Register(&purgeCmd{}, "libro")
	commander.Register(&migrateCmd{}, "operación")
	commander.Register(&tokenCmd{}, "operación")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
