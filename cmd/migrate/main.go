// Command migrate manages the database schema and seed data from the CLI.
//
// Usage:
//
//	migrate up            apply all pending migrations
//	migrate down [n]      revert the last n migrations (default 1)
//	migrate status        list every migration with its applied flag
//	migrate seed          load default admin, products and inventory
//	migrate unseed        remove seed rows that are still unmodified
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"keymarket/internal/config"
	"keymarket/internal/infra"
	"keymarket/internal/migration"
	"keymarket/internal/seed"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx := context.Background()
	runner := migration.NewRunner(db)

	switch os.Args[1] {
	case "up":
		if err := runner.Up(ctx); err != nil {
			log.Fatal().Err(err).Msg("migrate up failed")
		}
		if err := migration.VerifyForeignKeys(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("foreign key verification failed")
		}
		log.Info().Msg("schema is up to date")

	case "down":
		n := 1
		if len(os.Args) > 2 {
			n, err = strconv.Atoi(os.Args[2])
			if err != nil || n < 1 {
				log.Fatal().Msgf("invalid count %q", os.Args[2])
			}
		}
		if err := runner.Down(ctx, n); err != nil {
			log.Fatal().Err(err).Msg("migrate down failed")
		}

	case "status":
		statuses, err := runner.StatusAll(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("migrate status failed")
		}
		for _, s := range statuses {
			mark := " "
			if s.Applied {
				mark = "x"
			}
			note := ""
			if s.Lossy {
				note = "  (lossy down)"
			}
			fmt.Printf("[%s] %d %s%s\n", mark, s.Version, s.Name, note)
		}

	case "seed":
		if err := seed.Run(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
		log.Info().Msg("seed data loaded")

	case "unseed":
		if err := seed.Revert(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("unseed failed")
		}
		log.Info().Msg("seed data removed")

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up | down [n] | status | seed | unseed")
	os.Exit(2)
}
