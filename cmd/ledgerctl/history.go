package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

type historyCmd struct {
	period string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "historial de movimientos de un producto" }
func (*historyCmd) Usage() string {
	return `ledgerctl history [-p AAAA-MM] <product-id>

  Lista los movimientos del producto en orden cronológico. Sin -p muestra toda la historia.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "periodo AAAA-MM (vacío = toda la historia)")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("uso: %s", c.Usage())
	}
	var period domaininv.Period
	if c.period != "" {
		p, err := domaininv.ParsePeriod(c.period)
		if err != nil {
			return usage("%v", err)
		}
		period = p
	}

	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	productID := f.Arg(0)
	product, err := s.svc.GetProduct(ctx, productID)
	if err != nil {
		return fail(err)
	}
	list, err := s.svc.GetMovementHistory(ctx, productID, period)
	if err != nil {
		return fail(err)
	}
	title := product.Name
	if !period.IsZero() {
		title = fmt.Sprintf("%s · %s", product.Name, period)
	}
	printMarkdown(historyMarkdown(title, list))
	return subcommands.ExitSuccess
}
