package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pylotdev/pylot/internal/config"
	"github.com/pylotdev/pylot/internal/lspserver"
	"github.com/pylotdev/pylot/internal/version"
)

func lspCommand() *cli.Command {
	return &cli.Command{
		Name:  "lsp",
		Usage: "Start the Language Server Protocol server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stdio",
				Usage: "Use stdin/stdout for communication (required)",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Pin a config file instead of per-file discovery",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if !cmd.Bool("stdio") {
				fmt.Fprintln(os.Stderr, "Error: only --stdio transport is supported")
				return cli.Exit("", ExitConfigError)
			}

			server := lspserver.New(version.Version())
			if path := cmd.String("config"); path != "" {
				cfg, err := config.LoadFromFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					return cli.Exit("", ExitConfigError)
				}
				server = server.WithConfig(cfg)
			}
			return server.RunStdio()
		},
	}
}
