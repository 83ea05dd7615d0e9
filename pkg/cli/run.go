package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"wordma/pkg/config"
)

const helpFlag = "--help"

// Run is the main entry point. Returns exit code.
// sigCh delivers SIGINT/SIGTERM; long-running commands stop when it fires.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, sigCh <-chan os.Signal) int {
	o := NewIO(in, out, errOut)

	if len(args) < 2 {
		printUsage(o, nil)
		return 0
	}

	rest := args[1:]
	if rest[0] == "-h" || rest[0] == helpFlag || rest[0] == "help" {
		printUsage(o, nil)
		return 0
	}

	if err := config.Init(); err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	commands := allCommands(config.Cfg, sigCh)

	cmd, consumed := lookup(commands, rest)
	if cmd == nil {
		o.ErrPrintln("error: unknown command:", strings.Join(rest[:min(len(rest), 2)], " "))
		printUsage(NewIO(nil, errOut, errOut), commands)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	return cmd.Run(ctx, o, rest[consumed:])
}

func allCommands(cfg *config.Config, sigCh <-chan os.Signal) []*Command {
	return []*Command{
		ServeCmd(cfg, sigCh),
		VersionCmd(cfg),
		DBMigrateCmd(cfg),
		ThemeAddCmd(cfg),
		ThemeDevCmd(cfg, sigCh),
		ThemeBuildCmd(cfg),
		ThemeUpdateCmd(cfg),
		ThemeListCmd(cfg),
		DeployInitCmd(cfg),
		DeployDeleteCmd(cfg),
		DeployStatusCmd(cfg),
		DeployPushCmd(cfg),
		ContentExportCmd(cfg),
	}
}

// lookup matches the longest command name at the front of args.
func lookup(commands []*Command, args []string) (*Command, int) {
	for n := min(len(args), 2); n > 0; n-- {
		name := strings.Join(args[:n], " ")
		for _, c := range commands {
			if c.Name() == name {
				return c, n
			}
		}
	}
	return nil, 0
}

func printUsage(o *IO, commands []*Command) {
	if commands == nil {
		commands = allCommands(&config.Config{}, nil)
	}

	o.Println("wordma - local backend for the Wordma blog editor")
	o.Println()
	o.Println("Usage: wordma <command> [args]")
	o.Println()
	o.Println("Commands:")
	for _, c := range commands {
		o.Println(c.HelpLine())
	}
	o.Println()
	o.Println("Run 'wordma <command> --help' for details.")
}
