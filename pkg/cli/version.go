package cli

import (
	"context"
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	"wordma/pkg/config"
	"wordma/pkg/services"
)

// Version is set at build time with -ldflags "-X wordma/pkg/cli.Version=...".
var Version = "dev"

// VersionCmd returns the version command.
func VersionCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("version", flag.ContinueOnError),
		Usage: "version",
		Short: "Show wordma and project versions",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			o.Println("wordma", Version)

			info, err := services.ReadProjectInfo(cfg.ProjectRoot)
			if errors.Is(err, os.ErrNotExist) {
				o.Println("project: no package.json in", cfg.ProjectRoot)
				return nil
			}
			if err != nil {
				return err
			}

			o.Printf("project: %s %s\n", info.Name, info.Version)
			if info.Description != "" {
				o.Println(info.Description)
			}
			return nil
		},
	}
}
