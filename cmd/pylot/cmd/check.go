package cmd

import (
	stdcontext "context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pylotdev/pylot/internal/async"
	"github.com/pylotdev/pylot/internal/config"
	"github.com/pylotdev/pylot/internal/linter"
	"github.com/pylotdev/pylot/internal/reporter"
)

// Exit codes
const (
	ExitSuccess     = 0 // No diagnostics (or below fail-level threshold)
	ExitDiagnostics = 1 // Diagnostics found at or above fail-level
	ExitConfigError = 2 // Config or I/O error
	ExitNoFiles     = 3 // No Python files found
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check Python source for style and bug-pattern issues",
		ArgsUsage: "[FILE|DIR...|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.IntFlag{
				Name:    "max-line-length",
				Aliases: []string{"l"},
				Usage:   "Maximum line length for the style checker",
				Sources: cli.EnvVars("PYLOT_MAX_LINE_LENGTH"),
			},
			&cli.StringSliceFlag{
				Name:    "select",
				Usage:   "Style rule classes to check (can be repeated)",
				Sources: cli.EnvVars("PYLOT_SELECT"),
			},
			&cli.StringSliceFlag{
				Name:    "ignore",
				Usage:   "Rule-code prefix to suppress (can be repeated)",
				Sources: cli.EnvVars("PYLOT_IGNORE"),
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "Glob pattern to exclude files (can be repeated)",
				Sources: cli.EnvVars("PYLOT_EXCLUDE"),
			},
			&cli.BoolFlag{
				Name:  "no-pep8",
				Usage: "Disable the style checker backend",
			},
			&cli.BoolFlag{
				Name:  "no-pyflakes",
				Usage: "Disable the pattern checker backend",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json",
				Sources: cli.EnvVars("PYLOT_OUTPUT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
				Sources: cli.EnvVars("PYLOT_OUTPUT_PATH"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:    "multiline",
				Usage:   "Render each diagnostic as an extended block",
				Sources: cli.EnvVars("PYLOT_MULTILINE_ERRORS"),
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Hide source snippets in text output",
			},
			&cli.StringFlag{
				Name:    "fail-level",
				Usage:   "Minimum severity to cause non-zero exit: error, warning, info, style, none",
				Sources: cli.EnvVars("PYLOT_OUTPUT_FAIL_LEVEL"),
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of files to check concurrently",
				Value:   4,
				Sources: cli.EnvVars("PYLOT_JOBS"),
			},
		},
		Action: runCheck,
	}
}

// runCheck is the action handler for the check command.
func runCheck(ctx stdcontext.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	cfg, err := resolveConfig(cmd, inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	files, err := collectFiles(inputs, cfg.Exclude)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitNoFiles)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no Python files found")
		return cli.Exit("", ExitNoFiles)
	}

	tasks := make([]async.Task[reporter.FileReport], 0, len(files))
	for _, file := range files {
		input := linter.Input{FilePath: file, Config: cfg}
		if file == "-" {
			content, readErr := io.ReadAll(os.Stdin)
			if readErr != nil {
				fmt.Fprintf(os.Stderr, "Error: reading stdin: %v\n", readErr)
				return cli.Exit("", ExitConfigError)
			}
			input.FilePath = "<stdin>"
			input.Content = content
		}

		tasks = append(tasks, func(ctx stdcontext.Context) (reporter.FileReport, error) {
			result, err := linter.Run(ctx, input)
			if err != nil {
				return reporter.FileReport{}, err
			}
			return reporter.FileReport{
				Path:        input.FilePath,
				Diagnostics: result.Diagnostics,
				Source:      result.Source,
			}, nil
		})
	}

	runner := async.Runner[reporter.FileReport]{Concurrency: cmd.Int("jobs")}
	outcomes := runner.Run(ctx, tasks)

	reports := make([]reporter.FileReport, 0, len(files))
	for i, outcome := range outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", files[i], outcome.Err)
			return cli.Exit("", ExitConfigError)
		}
		reports = append(reports, outcome.Value)
	}

	out, cleanup, err := openOutput(cfg.Output.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	defer cleanup()

	rep, err := buildReporter(cmd, cfg, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	metadata := reporter.ReportMetadata{
		FilesScanned: len(reports),
		BackendsRun:  linter.BackendsEnabled(cfg),
	}
	if err := rep.Report(reports, metadata); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing report: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	if shouldFail(reports, cfg) {
		return cli.Exit("", ExitDiagnostics)
	}
	return nil
}

// resolveConfig loads the base configuration and applies flag overrides.
func resolveConfig(cmd *cli.Command, inputs []string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else if inputs[0] != "-" {
		cfg, err = config.Load(inputs[0])
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("max-line-length") {
		cfg.MaxLineLength = cmd.Int("max-line-length")
	}
	if cmd.IsSet("select") {
		cfg.Select = cmd.StringSlice("select")
	}
	if cmd.IsSet("ignore") {
		cfg.Ignore = append(cfg.Ignore, cmd.StringSlice("ignore")...)
	}
	if cmd.IsSet("exclude") {
		cfg.Exclude = append(cfg.Exclude, cmd.StringSlice("exclude")...)
	}
	if cmd.Bool("no-pep8") {
		cfg.Pep8 = false
	}
	if cmd.Bool("no-pyflakes") {
		cfg.Pyflakes = false
	}
	if cmd.IsSet("format") {
		cfg.Output.Format = cmd.String("format")
	}
	if cmd.IsSet("output") {
		cfg.Output.Path = cmd.String("output")
	}
	if cmd.IsSet("fail-level") {
		cfg.Output.FailLevel = cmd.String("fail-level")
	}
	if cmd.Bool("multiline") {
		cfg.MultilineErrors = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// collectFiles expands the command arguments into lintable Python files.
// "-" stands for stdin. Directories are walked for *.py files; explicitly
// named files are linted regardless of extension.
func collectFiles(inputs, exclude []string) ([]string, error) {
	var files []string
	for _, input := range inputs {
		if input == "-" {
			files = append(files, input)
			continue
		}

		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !linter.Excluded(filepath.ToSlash(input), exclude) {
				files = append(files, input)
			}
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != input {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".py") {
				return nil
			}
			if linter.Excluded(filepath.ToSlash(path), exclude) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// openOutput resolves the output destination.
func openOutput(path string) (io.Writer, func(), error) {
	switch path {
	case "", "stdout":
		return os.Stdout, func() {}, nil
	case "stderr":
		return os.Stderr, func() {}, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
}

func buildReporter(cmd *cli.Command, cfg *config.Config, out io.Writer) (reporter.Reporter, error) {
	format, err := reporter.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	opts := reporter.Options{
		Format:            format,
		Writer:            out,
		Multiline:         cfg.MultilineErrors,
		ShowSource:        !cmd.Bool("hide-source") && cfg.ShowErrorDescription,
		ErrorFormat:       cfg.ErrorFormat,
		DescriptionFormat: cfg.DescriptionFormat,
	}
	if cmd.Bool("no-color") {
		noColor := false
		opts.Color = &noColor
	}
	return reporter.New(opts)
}

// shouldFail reports whether any diagnostic is at or above the fail-level.
func shouldFail(reports []reporter.FileReport, cfg *config.Config) bool {
	threshold, enabled := cfg.FailSeverity()
	if !enabled {
		return false
	}
	for _, report := range reports {
		for _, d := range report.Diagnostics {
			if d.Severity.IsAtLeast(threshold) {
				return true
			}
		}
	}
	return false
}
