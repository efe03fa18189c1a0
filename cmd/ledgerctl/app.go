package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/backend"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var verbose = flag.Bool("v", false, "logs de depuración en stderr")

// session configuración, logger y servicio abiertos para un comando.
type session struct {
	cfg    *config.Config
	log    *logger.Logger
	ledger *backend.Ledger
	svc    *inventory.Service
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Output: os.Stderr})
	ledger, err := backend.Open(ctx, cfg, log.Component("backend"))
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:    cfg,
		log:    log,
		ledger: ledger,
		svc:    ledger.Service(cfg.Ledger, log.Component("ledger")),
	}, nil
}

func (s *session) close() {
	if err := s.ledger.Close(); err != nil {
		s.log.Error().Err(err).Msg("cerrar backend")
	}
}

// cliActor usuario del sistema operativo como autor de las mutaciones hechas por CLI.
func cliActor() inventory.Actor {
	name := os.Getenv("USER")
	if name == "" {
		name = "ledgerctl"
	}
	return inventory.Actor{UserID: "cli:" + name, UserName: name}
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitUsageError
}

// printMarkdown renderiza en la terminal; sin TTY o si glamour falla imprime el markdown tal cual.
func printMarkdown(md string) {
	if fi, err := os.Stdout.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q (AAAA-MM-DD)", s)
	}
	return t, nil
}
