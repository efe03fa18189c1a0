package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	infraexcel "github.com/jhoicas/stock-ledger/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
)

type reportCmd struct {
	period  string
	product string
	format  string
	output  string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "reporte de stock de un periodo" }
func (*reportCmd) Usage() string {
	return `ledgerctl report [-p AAAA-MM] [-product <id>] [-format md|json|pdf|xlsx] [-o archivo]

  Recalcula el reporte del periodo (por defecto el mes actual) desde el libro de movimientos.
  pdf y xlsx requieren -o.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "periodo AAAA-MM (por defecto el mes actual)")
	f.StringVar(&c.product, "product", "", "solo este producto")
	f.StringVar(&c.format, "format", "md", "md, json, pdf o xlsx")
	f.StringVar(&c.output, "o", "", "archivo de salida")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := periodFlag(c.period)
	if err != nil {
		return usage("%v", err)
	}
	if (c.format == "pdf" || c.format == "xlsx") && c.output == "" {
		return usage("-format %s requiere -o", c.format)
	}

	s, err := openSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	if c.product != "" {
		r, err := s.svc.GetProductReport(ctx, c.product, period)
		if err != nil {
			return fail(err)
		}
		if c.format == "json" {
			return c.writeJSON(dto.ToProductReportDTO(r))
		}
		printMarkdown(productMarkdown(r))
		return subcommands.ExitSuccess
	}

	report, err := s.svc.GetPeriodReport(ctx, period)
	if err != nil {
		return fail(err)
	}

	var exporter ports.ReportExporter
	switch c.format {
	case "md":
		printMarkdown(reportMarkdown(report))
		return subcommands.ExitSuccess
	case "json":
		return c.writeJSON(dto.ToPeriodReportResponse(report))
	case "pdf":
		exporter = infrapdf.NewReportPDFGenerator(s.cfg.App.Name)
	case "xlsx":
		exporter = infraexcel.NewReportXLSXGenerator()
	default:
		return usage("formato desconocido: %s", c.format)
	}

	data, err := exporter.Export(ctx, report)
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Reporte %s escrito en %s (%d bytes)\n", period, c.output, len(data))
	return subcommands.ExitSuccess
}

func (c *reportCmd) writeJSON(v any) subcommands.ExitStatus {
	out := os.Stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			return fail(err)
		}
		defer file.Close()
		out = file
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// periodFlag vacío es el mes actual en UTC.
func periodFlag(s string) (domaininv.Period, error) {
	if s == "" {
		return domaininv.PeriodOf(time.Now().UTC()), nil
	}
	return domaininv.ParsePeriod(s)
}
