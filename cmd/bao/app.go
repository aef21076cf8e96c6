// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/term"

	"github.com/baopkg/bao/internal/config"
	"github.com/baopkg/bao/pkg/types"
)

type (
	// App wires CLI dependencies for command handlers.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		flags  rootFlags
		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies defines the injectable services used to construct an App.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration from explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// rootFlags holds the values of the global flags.
	rootFlags struct {
		verbose    bool
		configPath string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		logger: newLogger(deps.Stderr, false),
	}, nil
}

// loadOptions returns the config loading inputs selected by the global flags.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.flags.configPath)}
}

// loadConfig loads the configuration for the current invocation.
//
// A file named with --config must load. Any other failure (a broken default
// config file, an unresolvable config dir) is reported as a warning and the
// defaults are used, so packaging keeps working on a fresh machine.
func (a *App) loadConfig(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		if a.flags.configPath != "" {
			return a.fail(err, "load configuration", a.flags.configPath)
		}
		_, _ = fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.useConfig(cfg)
	return nil
}

// useConfig installs cfg and derives the logger from it. The --verbose flag
// wins over ui.verbose.
func (a *App) useConfig(cfg *config.Config) {
	a.cfg = cfg
	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}
	a.logger = newLogger(a.stderr, a.flags.verbose)
}

// newLogger returns the CLI logger. Library progress is logged at Info and
// Debug, so only warnings reach the terminal unless verbose is set.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "bao",
	})
}

// glamourStyle picks the glamour style for markdown written to w. The auto
// scheme renders plain text when w is not a terminal.
func (a *App) glamourStyle(w io.Writer) string {
	scheme := config.ColorSchemeAuto
	if a.cfg != nil && a.cfg.UI.ColorScheme != "" {
		scheme = a.cfg.UI.ColorScheme
	}

	switch scheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return string(scheme)
	default:
		if f, ok := w.(interface{ Fd() uintptr }); ok && term.IsTerminal(f.Fd()) {
			return "dark"
		}
		return "notty"
	}
}
