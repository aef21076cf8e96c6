// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baopkg/bao/pkg/build"
	"github.com/baopkg/bao/pkg/metadata"
	"github.com/baopkg/bao/pkg/types"
)

// ErrManifestExists is returned by "bao init" when the manifest is already
// present and --force was not given.
var ErrManifestExists = errors.New("manifest already exists")

func newInitCommand(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a bao.toml manifest for a script or package",
		Long: `Write a bao.toml manifest for a script or package.

The manifest holds the filled package metadata: attributes found in the
source, then the defaults from the bao config, then the built-in
defaults. Edit it to override what the source declares; "bao build"
reads it back.

With --force an existing manifest is rewritten. Its values still take
precedence over the source, so the rewrite normalizes the file rather
than discarding edits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(app, args[0], force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing bao.toml")

	return cmd
}

func runInit(app *App, source string, force bool) error {
	path := types.FilesystemPath(source)
	manifestPath := build.ManifestPath(path)

	if !force {
		if _, err := os.Stat(string(manifestPath)); err == nil {
			return app.fail(fmt.Errorf("%w: %s", ErrManifestExists, manifestPath),
				"write manifest", string(manifestPath), "Run 'bao init --force' to rewrite it")
		}
	}

	pkg, _, err := build.LoadPackage(path, app.cfg.Defaults.AsMap())
	if err != nil {
		return app.fail(err, "resolve package metadata", source, suggestionsFor(err)...)
	}

	if err := metadata.WriteManifest(manifestPath, pkg); err != nil {
		return app.fail(err, "write manifest", string(manifestPath))
	}
	app.logger.Debug("wrote manifest", "path", manifestPath)

	_, _ = fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Wrote"), KeyStyle.Render(string(manifestPath)))
	return nil
}

// suggestionsFor returns fix hints for metadata failures.
func suggestionsFor(err error) []string {
	var missing *metadata.MissingFieldError
	var syntaxErr *metadata.InvalidSyntaxError
	switch {
	case errors.As(err, &missing):
		return []string{
			fmt.Sprintf("Add __%s__ = \"...\" to the script", missing.Field),
			fmt.Sprintf("Set %s in bao.toml or in the defaults block of the bao config", missing.Field),
		}
	case errors.As(err, &syntaxErr):
		return []string{"Fix the Python syntax error; bao only reads scripts that parse"}
	case errors.Is(err, build.ErrInvalidModule):
		return []string{"Point bao at a .py file or a directory containing __init__.py"}
	default:
		return nil
	}
}
