package main

// Run database migrations:
//   go run ./cmd/migrate up

import (
	"context"
	"database/sql"
	"os"

	"github.com/urfave/cli/v2"

	"lawyerup-backend/internal/shared/config"
	"lawyerup-backend/internal/shared/storage/db"
	"lawyerup-backend/internal/shared/telemetry"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "migrate",
		Usage: "manage the news database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Postgres connection string",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "apply all pending migrations",
				Action: withDB(db.RunMigrations),
			},
			{
				Name:   "down",
				Usage:  "roll back the most recent migration",
				Action: withDB(db.RollbackMigration),
			},
			{
				Name:   "status",
				Usage:  "print the state of every migration",
				Action: withDB(db.MigrationStatus),
			},
		},
		DefaultCommand: "up",
	}
}

func withDB(fn func(context.Context, *sql.DB) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		url := c.String("database-url")
		if url == "" {
			url = config.Load().DatabaseURL
		}
		ctx := c.Context
		sqlDB, err := db.Connect(ctx, url, db.OptionsFromEnv(db.DefaultMigrateOptions()))
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		if err := fn(ctx, sqlDB); err != nil {
			return err
		}
		telemetry.Info("migrate.done", map[string]any{"command": c.Command.Name})
		return nil
	}
}
