// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baopkg/bao/internal/config"
)

// newConfigCommand creates the `bao config` command tree.
// The subcommands resolve the config file themselves, so a broken file can
// still be located and replaced.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage bao configuration",
		Long: `Manage bao configuration.

Configuration is stored in:
  - Linux: $XDG_CONFIG_HOME/bao/config.cue (~/.config/bao/config.cue)
  - macOS: ~/Library/Application Support/bao/config.cue
  - Windows: %APPDATA%\bao\config.cue

Every key can be overridden from the environment with a BAO_ prefix,
for example BAO_DEFAULTS_AUTHOR or BAO_UI_VERBOSE.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.useConfig(config.DefaultConfig())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	opts := app.loadOptions()
	cfg, err := app.Config.Load(ctx, opts)
	if err != nil {
		return app.fail(err, "load configuration", app.flags.configPath,
			"Run 'bao config path' to locate the file", "Run 'bao config init --force' to replace it with defaults")
	}

	_, _ = fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	_, _ = fmt.Fprintln(app.stdout)

	cfgPath, exists, pathErr := config.ResolvePath(opts)
	switch {
	case pathErr == nil && exists:
		_, _ = fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Config file"), cfgPath)
	default:
		_, _ = fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	_, _ = fmt.Fprintln(app.stdout)
	_, _ = fmt.Fprintf(app.stdout, "%s:\n", KeyStyle.Render("defaults"))
	for _, kv := range [][2]string{
		{"author", cfg.Defaults.Author},
		{"license", cfg.Defaults.License},
		{"maintainer", cfg.Defaults.Maintainer},
		{"email", cfg.Defaults.Email},
		{"copyright", cfg.Defaults.Copyright},
	} {
		_, _ = fmt.Fprintf(app.stdout, "  %s: %s\n", kv[0], displayValue(kv[1]))
	}

	_, _ = fmt.Fprintln(app.stdout)
	_, _ = fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("output_dir"), displayValue(cfg.OutputDir))

	_, _ = fmt.Fprintln(app.stdout)
	_, _ = fmt.Fprintf(app.stdout, "%s:\n", KeyStyle.Render("ui"))
	_, _ = fmt.Fprintf(app.stdout, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	_, _ = fmt.Fprintf(app.stdout, "  color_scheme: %s\n", displayValue(string(cfg.UI.ColorScheme)))

	return nil
}

// displayValue styles a config value, marking empty ones as unset.
func displayValue(v string) string {
	if v == "" {
		return SubtitleStyle.Render("(unset)")
	}
	return SuccessStyle.Render(v)
}

func showConfigPath(app *App) error {
	cfgPath, _, err := config.ResolvePath(app.loadOptions())
	if err != nil {
		return app.fail(err, "resolve config path", app.flags.configPath)
	}
	_, _ = fmt.Fprintln(app.stdout, cfgPath)
	return nil
}

func initConfig(app *App, force bool) error {
	cfgPath, err := config.CreateDefaultConfig(app.loadOptions(), force)
	if err != nil {
		var suggestions []string
		if errors.Is(err, config.ErrConfigExists) {
			suggestions = append(suggestions, "Run 'bao config init --force' to overwrite it")
		}
		return app.fail(err, "create config file", cfgPath, suggestions...)
	}

	_, _ = fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), KeyStyle.Render(cfgPath))
	return nil
}
