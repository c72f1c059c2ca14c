package cmd

import (
	stdcontext "context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pylotdev/pylot/internal/backend"
	"github.com/pylotdev/pylot/internal/config"
)

func fixCommand() *cli.Command {
	return &cli.Command{
		Name:      "fix",
		Usage:     "Rewrite Python source through the auto-formatter",
		ArgsUsage: "[FILE...|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "Write the corrected source to stdout instead of rewriting files",
			},
		},
		Action: runFix,
	}
}

// runFix pipes each file through the auto-formatter backend and writes the
// result back. Stdin input always goes to stdout. Files are only rewritten
// when the formatter actually changed something.
func runFix(ctx stdcontext.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		return cli.Exit("", ExitNoFiles)
	}

	for _, input := range inputs {
		toStdout := cmd.Bool("stdout") || input == "-"

		var source []byte
		var err error
		if input == "-" {
			source, err = io.ReadAll(os.Stdin)
		} else {
			source, err = os.ReadFile(input)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", input, err)
			return cli.Exit("", ExitConfigError)
		}

		cfg, err := loadFixConfig(cmd, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return cli.Exit("", ExitConfigError)
		}

		fixCtx, cancel := stdcontext.WithTimeout(ctx, cfg.BackendTimeout())
		fixer := &backend.Autopep8{
			Path:          cfg.Backends.Autopep8,
			MaxLineLength: cfg.MaxLineLength,
		}
		fixed, err := fixer.Fix(fixCtx, source)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", input, err)
			return cli.Exit("", ExitConfigError)
		}

		switch {
		case toStdout:
			if _, err := os.Stdout.Write(fixed); err != nil {
				return cli.Exit("", ExitConfigError)
			}
		case string(fixed) == string(source):
			// Nothing to rewrite.
		default:
			if err := os.WriteFile(input, fixed, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", input, err)
				return cli.Exit("", ExitConfigError)
			}
		}
	}
	return nil
}

func loadFixConfig(cmd *cli.Command, input string) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.LoadFromFile(path)
	}
	if input == "-" {
		return config.Load(".")
	}
	return config.Load(input)
}
