package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"wordma/pkg/config"
	"wordma/pkg/services"
)

// DeployInitCmd returns the deploy init command.
func DeployInitCmd(cfg *config.Config) *Command {
	flags := flag.NewFlagSet("deploy init", flag.ContinueOnError)
	yes := flags.BoolP("yes", "y", false, "replace an existing deploy directory without asking")

	return &Command{
		Flags: flags,
		Usage: "deploy init <url> [--yes]",
		Short: "Clone the deploy repository",
		Long: "Clone the repository that built sites are pushed to into the deploy directory.\n" +
			"An existing deploy directory is replaced after confirmation.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: repository url is required", services.ErrInvalidInput)
			}
			m := newDeployManager(cfg, o)
			if err := m.CheckProjectRoot(); err != nil {
				return err
			}
			if m.Exists() && !*yes {
				ok, err := o.Confirm(fmt.Sprintf("%s already exists. Replace it?", m.DeployDir))
				if err != nil {
					return err
				}
				if !ok {
					o.Println("Aborted.")
					return nil
				}
			}
			if _, err := m.Init(ctx, args[0]); err != nil {
				return err
			}
			o.Println("deploy directory ready:", m.DeployDir)
			return nil
		},
	}
}

// DeployDeleteCmd returns the deploy delete command.
func DeployDeleteCmd(cfg *config.Config) *Command {
	flags := flag.NewFlagSet("deploy delete", flag.ContinueOnError)
	yes := flags.BoolP("yes", "y", false, "delete without asking")

	return &Command{
		Flags: flags,
		Usage: "deploy delete [--yes]",
		Short: "Remove the deploy directory",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			m := newDeployManager(cfg, o)
			if err := m.CheckProjectRoot(); err != nil {
				return err
			}
			if !m.Exists() {
				o.Println("nothing to delete:", m.DeployDir, "does not exist")
				return nil
			}
			if !*yes {
				ok, err := o.Confirm(fmt.Sprintf("Delete %s?", m.DeployDir))
				if err != nil {
					return err
				}
				if !ok {
					o.Println("Aborted.")
					return nil
				}
			}
			if err := m.Delete(); err != nil {
				return err
			}
			o.Println("deleted", m.DeployDir)
			return nil
		},
	}
}

// DeployStatusCmd returns the deploy status command.
func DeployStatusCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("deploy status", flag.ContinueOnError),
		Usage: "deploy status",
		Short: "List uncommitted files in the deploy directory",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			files, err := newDeployManager(cfg, nil).Status(ctx)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				o.Println("clean")
				return nil
			}
			for _, f := range files {
				o.Println(f)
			}
			return nil
		},
	}
}

// DeployPushCmd returns the deploy push command.
func DeployPushCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("deploy push", flag.ContinueOnError),
		Usage: "deploy push",
		Short: "Commit and push the deploy directory",
		Long: "Commit every change in the deploy directory and push it to the configured branch.\n" +
			"GITHUB_TOKEN, when set, is used to authenticate the push.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			// not streamed: the push output is scrubbed of the token before it is shown
			out, err := newDeployManager(cfg, nil).Push(ctx, cfg.GitHubToken)
			o.Printf("%s", out)
			if err != nil {
				return err
			}
			o.Println("pushed to", cfg.GitBranch)
			return nil
		},
	}
}
