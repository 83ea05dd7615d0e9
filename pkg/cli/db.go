package cli

import (
	"context"
	"time"

	flag "github.com/spf13/pflag"

	"wordma/pkg/config"
	"wordma/pkg/database"
)

// DBMigrateCmd returns the db migrate command.
func DBMigrateCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("db migrate", flag.ContinueOnError),
		Usage: "db migrate",
		Short: "Apply pending migrations to wordma.db",
		Long:  "Apply pending schema migrations to the local database and list the applied versions.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			db, err := database.Open(ctx, cfg.DBPath(), cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			applied, err := database.AppliedVersions(ctx, sqlDB)
			if err != nil {
				return err
			}

			o.Println("database:", cfg.DBPath())
			for _, m := range applied {
				o.Printf("  v%-3d %-24s %s\n", m.Version, m.Description, m.AppliedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}
