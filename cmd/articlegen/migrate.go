package main

import (
	"fmt"
	"log/slog"

	"github.com/docutag/articlegen/db"
)

// MigrateCmd implements the 'migrate' command.
type MigrateCmd struct {
	DatabaseURL string `name:"database-url" required:"" help:"PostgreSQL DSN" env:"ARTICLEGEN_DATABASE_URL"`
	Rollback    bool   `help:"Roll back the most recent migration"`
	Status      bool   `help:"List migrations and whether they are applied"`
}

func (m *MigrateCmd) Run(g *Global, _ *CLI) error {
	conn, err := db.Open(db.Config{DSN: m.DatabaseURL})
	if err != nil {
		return err
	}
	defer conn.Close()

	switch {
	case m.Status:
		statuses, err := db.GetMigrationStatus(conn)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Fprintf(g.Out, "%3d  %-8s %s\n", s.Version, state, s.Name)
		}
		return nil
	case m.Rollback:
		return db.Rollback(conn)
	default:
		if err := db.Migrate(conn); err != nil {
			return err
		}
		slog.Info("migrations applied")
		return nil
	}
}
