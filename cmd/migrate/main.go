package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"olympics-storefront/internal/config"
	"olympics-storefront/internal/database"
	"olympics-storefront/internal/storage"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	status := flags.Bool("status", false, "show migration status")
	up := flags.Bool("up", false, "run pending migrations")
	purge := flags.Bool("purge", false, "delete visitor storage untouched for longer than SESSION_PURGE_AFTER")

	cfg, err := config.LoadFlagSet(flags, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, database.Config(cfg.Database))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch {
	case *up:
		if err := db.RunMigrations(ctx); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("All migrations completed successfully")

	case *status:
		migrator := database.NewMigrator(db.DB)
		applied, err := migrator.AppliedMigrations(ctx)
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		migrations, err := database.LoadMigrations()
		if err != nil {
			log.Fatalf("Failed to load migrations: %v", err)
		}
		for _, m := range migrations {
			state := "PENDING"
			if applied[m.Version] {
				state = "APPLIED"
			}
			fmt.Printf("%03d: %s [%s]\n", m.Version, m.Name, state)
		}

	case *purge:
		provider := storage.NewPostgresProvider(db.DB, nil)
		removed, err := provider.PurgeStale(ctx, cfg.Session.PurgeAfter)
		if err != nil {
			log.Fatalf("Purge failed: %v", err)
		}
		fmt.Printf("Removed %d stale entries\n", removed)

	default:
		flags.Usage()
		os.Exit(2)
	}
}
