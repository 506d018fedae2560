package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/psv/cli/benchmark"
	"github.com/nspcc-dev/psv/cli/options"
	"github.com/nspcc-dev/psv/cli/shell"
	"github.com/nspcc-dev/psv/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "psv\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a psv instance of [cli.App] with all commands included. It
// starts the interactive prompt if no command is given.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "psv"
	ctl.Version = config.Version
	ctl.Usage = "push_swap visualizer and benchmark"
	ctl.ErrWriter = os.Stdout
	ctl.Flags = options.Common
	ctl.Action = shell.StartShell

	ctl.Commands = append(ctl.Commands, benchmark.NewCommands()...)
	return ctl
}
