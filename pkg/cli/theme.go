package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"wordma/pkg/config"
	"wordma/pkg/services"
)

var errNameRequired = errors.New("theme name is required")

// ThemeAddCmd returns the theme add command.
func ThemeAddCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("theme add", flag.ContinueOnError),
		Usage: "theme add <url>",
		Short: "Clone a theme repository into the themes directory",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: repository url is required", services.ErrInvalidInput)
			}
			name, _, err := newThemeManager(cfg, o).Add(ctx, args[0])
			if err != nil {
				return err
			}
			o.Printf("theme %s added\n", name)
			return nil
		},
	}
}

// ThemeDevCmd returns the theme dev command.
func ThemeDevCmd(cfg *config.Config, sigCh <-chan os.Signal) *Command {
	return &Command{
		Flags: flag.NewFlagSet("theme dev", flag.ContinueOnError),
		Usage: "theme dev <name>",
		Short: "Run the theme's dev script until interrupted",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errNameRequired
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				select {
				case <-sigCh:
					cancel()
				case <-ctx.Done():
				}
			}()

			_, err := newThemeManager(cfg, o).Dev(ctx, args[0])
			if err != nil && ctx.Err() != nil {
				// interrupted by the user
				return nil
			}
			return err
		},
	}
}

// ThemeBuildCmd returns the theme build command.
func ThemeBuildCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("theme build", flag.ContinueOnError),
		Usage: "theme build <name>",
		Short: "Build a theme and move its output into the deploy directory",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errNameRequired
			}
			res, err := newThemeManager(cfg, o).Build(ctx, args[0])
			if err != nil {
				return err
			}
			if res.Moved {
				o.Println("build output moved to", res.OutputDir)
			} else {
				o.Println("build finished, no output directory found")
			}
			return nil
		},
	}
}

// ThemeUpdateCmd returns the theme update command.
func ThemeUpdateCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("theme update", flag.ContinueOnError),
		Usage: "theme update <name>",
		Short: "Pull the latest commits of a theme",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errNameRequired
			}
			if _, err := newThemeManager(cfg, o).Update(ctx, args[0]); err != nil {
				return err
			}
			o.Printf("theme %s updated\n", args[0])
			return nil
		},
	}
}

// ThemeListCmd returns the theme list command.
func ThemeListCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("theme list", flag.ContinueOnError),
		Usage: "theme list",
		Short: "List installed themes",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			themes, err := newThemeManager(cfg, nil).List()
			if err != nil {
				return err
			}
			if len(themes) == 0 {
				o.Println("no themes installed")
				return nil
			}
			for _, t := range themes {
				var notes string
				if !t.HasPackageJSON {
					notes += " (no package.json)"
				}
				if t.IsGit {
					notes += " (git)"
				}
				o.Printf("%s%s\n", t.Name, notes)
			}
			return nil
		},
	}
}
