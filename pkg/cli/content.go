package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"wordma/pkg/config"
	"wordma/pkg/database"
	"wordma/pkg/services"
)

// ContentExportCmd returns the content export command.
func ContentExportCmd(cfg *config.Config) *Command {
	flags := flag.NewFlagSet("content export", flag.ContinueOnError)
	dir := flags.String("dir", cfg.ContentDir, "content directory, relative to the project root")

	return &Command{
		Flags: flags,
		Usage: "content export [--dir]",
		Short: "Write articles as Markdown posts for the theme",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			db, err := database.Open(ctx, cfg.DBPath(), cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			res, err := services.ExportContent(ctx, services.NewStore(db), cfg.Resolve(*dir))
			if err != nil {
				return err
			}
			for _, name := range res.Written {
				o.Println("wrote", name)
			}
			for _, name := range res.Removed {
				o.Println("removed", name)
			}
			o.Printf("%d posts in %s\n", len(res.Written), res.Dir)
			return nil
		},
	}
}
