package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/jhoicas/stock-ledger/pkg/config"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

type tokenCmd struct {
	userID   string
	userName string
	role     string
	minutes  int
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "emite un JWT para pruebas locales de la API" }
func (*tokenCmd) Usage() string {
	return `ledgerctl token [-user id] [-name nombre] [-role admin|manager|cashier] [-exp minutos]

  Firma un token con JWT_SECRET. Solo para entornos de desarrollo.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.userID, "user", "dev", "user_id del token")
	f.StringVar(&c.userName, "name", "Desarrollo", "nombre visible")
	f.StringVar(&c.role, "role", pkgjwt.RoleManager, "rol")
	f.IntVar(&c.minutes, "exp", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch c.role {
	case pkgjwt.RoleAdmin, pkgjwt.RoleManager, pkgjwt.RoleCashier:
	default:
		return usage("rol desconocido: %s", c.role)
	}
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	if cfg.App.Env == "production" {
		return usage("token no disponible con APP_ENV=production")
	}
	minutes := c.minutes
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}
	tok, err := pkgjwt.Generate(cfg.JWT.Secret, c.userID, c.userName, c.role, cfg.JWT.Issuer, minutes)
	if err != nil {
		return fail(err)
	}
	fmt.Println(tok)
	return subcommands.ExitSuccess
}
