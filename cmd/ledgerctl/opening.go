package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/google/subcommands"

	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

type setOpeningCmd struct{}

func (*setOpeningCmd) Name() string { return "set-opening" }
func (*setOpeningCmd) Synopsis() string {
	return "fija el stock de apertura de un producto en un periodo"
}
func (*setOpeningCmd) Usage() string {
	return `ledgerctl set-opening <product-id> <AAAA-MM> <cantidad>

  Registra o reemplaza la apertura del periodo. Solo afecta reportes; no cambia el stock actual.
`
}

func (*setOpeningCmd) SetFlags(*flag.FlagSet) {}

func (c *setOpeningCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usage("uso: %s", c.Usage())
	}
	period, err := domaininv.ParsePeriod(f.Arg(1))
	if err != nil {
		return usage("%v", err)
	}
	qty, err := strconv.ParseInt(f.Arg(2), 10, 64)
	if err != nil {
		return usage("cantidad inválida %q", f.Arg(2))
	}

	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	ob, err := s.svc.SetOpeningStock(ctx, f.Arg(0), period, qty, cliActor())
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Apertura %s de %s: %d\n", ob.Period, ob.ProductID, ob.Quantity)
	return subcommands.ExitSuccess
}
