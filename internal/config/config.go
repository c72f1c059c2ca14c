// Package config provides configuration loading and discovery for pylot.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (PYLOT_* prefix)
//  3. Config file (closest .pylot.toml or pylot.toml)
//  4. Built-in defaults
//
// Config file discovery follows a cascading pattern: starting from the target
// file's directory, walk up the filesystem until a config file is found.
// The closest config wins (no merging).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/pylotdev/pylot/internal/diag"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".pylot.toml", "pylot.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "PYLOT_"

// Config represents the complete pylot configuration.
type Config struct {
	// Active toggles the whole pipeline. When false, a run produces no
	// diagnostics without invoking any backend.
	Active bool `json:"active" koanf:"active"`

	// Pep8 enables the style-checker backend.
	Pep8 bool `json:"pep8" koanf:"pep8"`

	// Pyflakes enables the pattern-checker backend.
	Pyflakes bool `json:"pyflakes" koanf:"pyflakes"`

	// Select lists the style rule classes to check (e.g. "E", "W").
	Select []string `json:"select" koanf:"select"`

	// MaxLineLength is the style checker's maximum line length.
	MaxLineLength int `json:"max-line-length" koanf:"max-line-length"`

	// Ignore lists rule-code prefixes to suppress (e.g. "E5" drops E501).
	// Diagnostics without a code are never suppressed.
	Ignore []string `json:"ignore" koanf:"ignore"`

	// Exclude lists glob patterns for files that are not linted at all.
	Exclude []string `json:"exclude" koanf:"exclude"`

	// ShowErrorDescription enables the extended multi-line panel form.
	ShowErrorDescription bool `json:"show-error-description" koanf:"show-error-description"`

	// ShowErrorOffsetCursor adds the caret alignment line to panel blocks.
	ShowErrorOffsetCursor bool `json:"show-error-offset-cursor" koanf:"show-error-offset-cursor"`

	// MultilineErrors renders each diagnostic as a block in text output.
	MultilineErrors bool `json:"multiline-errors" koanf:"multiline-errors"`

	// UnderlineErrors enables inline underline regions for the host editor.
	UnderlineErrors bool `json:"underline-errors" koanf:"underline-errors"`

	// ErrorFormat is the template for the base error line.
	// Placeholders: {code}, {text}.
	ErrorFormat string `json:"error-format" koanf:"error-format"`

	// DescriptionFormat is the template for the located description line.
	// Placeholders: {line}, {column}, {text}.
	DescriptionFormat string `json:"description-format" koanf:"description-format"`

	// Output configures output format and destination.
	Output OutputConfig `json:"output" koanf:"output"`

	// Backends configures the external analyzer executables.
	Backends BackendsConfig `json:"backends" koanf:"backends"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format (text, json).
	Format string `json:"format,omitempty" koanf:"format"`

	// Path specifies where to write output: stdout, stderr, or a file path.
	Path string `json:"path,omitempty" koanf:"path"`

	// FailLevel sets the minimum severity level that causes a non-zero exit
	// code: error, warning, info, style, none.
	FailLevel string `json:"fail-level,omitempty" koanf:"fail-level"`
}

// BackendsConfig configures the external analyzer executables.
//
// Example TOML configuration:
//
//	[backends]
//	pycodestyle = "/usr/local/bin/pycodestyle"
//	timeout = "10s"
type BackendsConfig struct {
	// Pycodestyle is the style checker executable.
	Pycodestyle string `json:"pycodestyle,omitempty" koanf:"pycodestyle"`

	// Pyflakes is the pattern checker executable.
	Pyflakes string `json:"pyflakes,omitempty" koanf:"pyflakes"`

	// Autopep8 is the auto-formatter executable.
	Autopep8 string `json:"autopep8,omitempty" koanf:"autopep8"`

	// Timeout is the wall-clock budget per backend invocation.
	Timeout string `json:"timeout,omitempty" koanf:"timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Active:                true,
		Pep8:                  true,
		Pyflakes:              true,
		Select:                []string{"E", "W"},
		MaxLineLength:         79,
		ShowErrorDescription:  true,
		ShowErrorOffsetCursor: true,
		MultilineErrors:       false,
		UnderlineErrors:       true,
		ErrorFormat:           "{code} : {text}",
		DescriptionFormat:     "L{line}:C{column} {text}",
		Output: OutputConfig{
			Format:    "text",
			Path:      "stdout",
			FailLevel: "style", // Any diagnostic causes exit code 1
		},
		Backends: BackendsConfig{
			Pycodestyle: "pycodestyle",
			Pyflakes:    "pyflakes",
			Autopep8:    "autopep8",
			Timeout:     "10s",
		},
	}
}

// Load loads configuration for a target file path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath))
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath)
}

// LoadFromMap merges a settings map over the built-in defaults. Editor
// clients push settings this way (LSP initializationOptions), so no file
// discovery or environment lookup happens here. Keys use the same names
// as the TOML file, with "." separating nested sections.
func LoadFromMap(settings map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}
	if err := k.Load(confmap.Provider(settings, "."), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadWithConfigPath(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load environment variables (PYLOT_* prefix)
	// PYLOT_MAX_LINE_LENGTH -> max-line-length
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return &cfg, nil
}

// Validate checks the merged configuration for values the pipeline
// cannot work with.
func (c *Config) Validate() error {
	if c.MaxLineLength < 0 {
		return fmt.Errorf("max-line-length must be non-negative, got %d", c.MaxLineLength)
	}
	if !strings.Contains(c.DescriptionFormat, "{text}") {
		return fmt.Errorf("description-format must contain the {text} placeholder: %q", c.DescriptionFormat)
	}
	if c.Output.FailLevel != "" && c.Output.FailLevel != "none" {
		if _, err := diag.ParseSeverity(c.Output.FailLevel); err != nil {
			return fmt.Errorf("invalid fail-level: %w", err)
		}
	}
	return nil
}

// FailSeverity returns the configured fail-level severity.
// The second return value is false when fail-level is "none" (never fail).
func (c *Config) FailSeverity() (diag.Severity, bool) {
	switch c.Output.FailLevel {
	case "none":
		return 0, false
	case "":
		return diag.SeverityStyle, true
	default:
		sev, err := diag.ParseSeverity(c.Output.FailLevel)
		if err != nil {
			return diag.SeverityStyle, true
		}
		return sev, true
	}
}

// BackendTimeout returns the per-backend timeout, or the default when unset
// or unparseable.
func (c *Config) BackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backends.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated
// equivalents for environment variable translation.
var knownHyphenatedKeys = map[string]string{
	"max.line.length":          "max-line-length",
	"show.error.description":   "show-error-description",
	"show.error.offset.cursor": "show-error-offset-cursor",
	"multiline.errors":         "multiline-errors",
	"underline.errors":         "underline-errors",
	"error.format":             "error-format",
	"description.format":       "description-format",
	"fail.level":               "fail-level",
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"active":                   {},
	"pep8":                     {},
	"pyflakes":                 {},
	"select":                   {},
	"max-line-length":          {},
	"ignore":                   {},
	"exclude":                  {},
	"show-error-description":   {},
	"show-error-offset-cursor": {},
	"multiline-errors":         {},
	"underline-errors":         {},
	"error-format":             {},
	"description-format":       {},
	"output":                   {},
	"backends":                 {},
}

// envKeyTransform converts environment variable names to config keys.
// PYLOT_MAX_LINE_LENGTH -> max-line-length
// PYLOT_OUTPUT_FAIL_LEVEL -> output.fail-level
func envKeyTransform(k, v string) (string, any) {
	s := strings.TrimPrefix(k, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}

	// List-valued keys accept comma-separated values.
	switch topLevel {
	case "select", "ignore", "exclude":
		if s == topLevel {
			return s, splitList(v)
		}
	}

	return s, v
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Discover finds the closest config file for a target file path.
// It walks up the directory tree from the target's directory,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := filepath.Dir(absPath)

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
