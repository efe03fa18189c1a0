package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type purgeCmd struct {
	from, to string
	yes      bool
}

func (*purgeCmd) Name() string     { return "purge" }
func (*purgeCmd) Synopsis() string { return "borra movimientos de un rango de fechas" }
func (*purgeCmd) Usage() string {
	return `ledgerctl purge -from AAAA-MM-DD -to AAAA-MM-DD -yes

  Elimina los movimientos con fecha en [from, to). El stock actual no cambia; fije aperturas
  para los periodos siguientes si los reportes deben conservar sus saldos.
`
}

func (c *purgeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "fecha inicial (incluida)")
	f.StringVar(&c.to, "to", "", "fecha final (excluida)")
	f.BoolVar(&c.yes, "yes", false, "confirma el borrado")
}

func (c *purgeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := parseDate(c.from)
	if err != nil {
		return usage("-from: %v", err)
	}
	to, err := parseDate(c.to)
	if err != nil {
		return usage("-to: %v", err)
	}
	if !c.yes {
		return usage("el borrado es irreversible: agregue -yes para confirmar")
	}

	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	n, err := s.svc.PurgeMovements(ctx, from, to, cliActor())
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%d movimientos eliminados\n", n)
	return subcommands.ExitSuccess
}
