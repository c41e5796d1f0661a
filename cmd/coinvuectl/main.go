// Command coinvuectl administers CoinVue accounts directly against the
// database. It reads the same configuration as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/coinvue/internal/cli"
	"github.com/dmitrijs2005/coinvue/internal/flagx"
	"github.com/dmitrijs2005/coinvue/internal/logging"
	"github.com/dmitrijs2005/coinvue/internal/server"
	"github.com/dmitrijs2005/coinvue/internal/server/auth"
	"github.com/dmitrijs2005/coinvue/internal/server/config"
	"github.com/dmitrijs2005/coinvue/internal/server/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if !errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg := config.Load(args)
	command := flagx.Positional(args, config.ValueFlags())
	if len(command) == 0 || command[0] == "help" {
		return cli.NewApp(nil, os.Stdin, os.Stdout).Run(ctx, command)
	}

	db, rm, err := server.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("db close: %v", err)
		}
	}()

	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)
	admin := services.NewAdminService(db, rm, auth.NewPasswordHasher(cfg.BcryptCost), services.AdminSettings{
		ActiveUserWindow: cfg.ActiveUserWindow,
		TopCoinsLimit:    cfg.TopCoinsLimit,
	}, logger)

	return cli.NewApp(admin, os.Stdin, os.Stdout).Run(ctx, command)
}
