package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ms-directory/internal/config"
	"ms-directory/internal/database"
	"ms-directory/internal/database/migrations"
	"ms-directory/internal/directory"
	directory_db "ms-directory/internal/directory/db"
	"ms-directory/internal/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	fs := flag.NewFlagSet("directory-migrate", flag.ExitOnError)
	up := fs.Bool("up", false, "apply all pending migrations")
	down := fs.Bool("down", false, "roll back all migrations")
	to := fs.Uint("to", 0, "migrate up or down to this version")
	reset := fs.Bool("reset", false, "drop and recreate the directory tables")
	seed := fs.Bool("seed", false, "insert the sample venues, artists and shows")
	driver := fs.String("driver", cfg.Database.Driver, "database driver: postgres or sqlite")
	fs.Parse(os.Args[1:])

	cfg.Database.Driver = *driver

	log, err := logger.New(logger.Options{Service: "directory-migrate"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx := context.Background()
	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open database: %v", err))
	}
	defer bunDB.Close()

	directoryDB := directory_db.New(bunDB)

	if *reset {
		log.Info("MIGRATION", "Dropping tables...")
		if err := directoryDB.DropSchema(ctx); err != nil {
			log.Fatal("MIGRATION", fmt.Sprintf("Failed to drop tables: %v", err))
		}
		log.Info("MIGRATION", "Creating tables...")
		if err := directoryDB.CreateSchema(ctx); err != nil {
			log.Fatal("MIGRATION", fmt.Sprintf("Failed to create tables: %v", err))
		}
	}

	if *up || *down || *to > 0 {
		if cfg.Database.Driver != database.DriverPostgres {
			log.Fatal("MIGRATION", "versioned migrations need the postgres driver, use -reset for sqlite")
		}
		runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{MigrationsDir: cfg.Database.MigrationsDir}, log)

		switch {
		case *down:
			err = runner.MigrateDown()
		case *to > 0:
			err = runner.MigrateTo(*to)
		default:
			err = runner.MigrateUp()
		}
		// -seed below still needs the pool, the runner only owns its own connection
		if closeErr := runner.Close(); closeErr != nil {
			log.Warn("MIGRATION", fmt.Sprintf("Failed to close migrator: %v", closeErr))
		}
		if err != nil {
			log.Fatal("MIGRATION", err.Error())
		}
		log.Info("MIGRATION", "Migrations applied")
	}

	if *seed {
		log.Info("MIGRATION", "Seeding sample data...")
		if err := directoryDB.Seed(ctx, directory.SystemClock{}.Now()); err != nil {
			log.Fatal("MIGRATION", fmt.Sprintf("Failed to seed data: %v", err))
		}
		log.LogDatabase("SEED", "venues, artists, shows", "Sample data inserted")
	}

	log.Info("MIGRATION", "✅ Done.")
}
