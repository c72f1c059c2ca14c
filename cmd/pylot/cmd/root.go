package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/pylotdev/pylot/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "pylot",
		Usage:   "A Python linting driver for pycodestyle, pyflakes and autopep8",
		Version: version.Version(),
		Description: `pylot runs the pycodestyle style checker and the pyflakes bug-pattern
checker over Python source, merges their findings into a single diagnostic
list, and reports them. It can also rewrite source through autopep8 and serve
diagnostics to editors over the Language Server Protocol.

Examples:
  pylot check app.py
  pylot check --max-line-length 100 src/
  cat app.py | pylot check -
  pylot fix app.py
  pylot lsp --stdio`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("PYLOT_VERBOSE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logrus.SetOutput(os.Stderr)
			if cmd.Bool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			checkCommand(),
			fixCommand(),
			lspCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
