// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/baopkg/bao/pkg/build"
	"github.com/baopkg/bao/pkg/metadata"
	"github.com/baopkg/bao/pkg/types"
)

func newInfoCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <script>",
		Short: "Show the metadata autogenerated from a script",
		Long: `Show the metadata autogenerated from a script.

Every line of the form __attr__ = "value" contributes an attribute, the
file stem becomes the name and the module docstring is rendered as
markdown. A package directory is read through its __init__.py.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(app, args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the metadata as JSON")

	return cmd
}

func runInfo(app *App, source string, asJSON bool) error {
	path := types.FilesystemPath(source)
	if _, err := os.Stat(source); err != nil {
		return app.fail(err, "read script", source)
	}

	md, err := build.ModuleMetadata(path)
	if err != nil {
		return app.fail(err, "read script", source)
	}
	app.logger.Debug("autogenerated metadata", "path", source, "attributes", len(md))

	if asJSON {
		out, err := json.MarshalIndent(md, "", "  ")
		if err != nil {
			return app.fail(err, "encode metadata", source)
		}
		_, _ = fmt.Fprintln(app.stdout, string(out))
		return nil
	}

	_, _ = fmt.Fprintln(app.stdout, TitleStyle.Render(md.String(metadata.KeyName)))
	for _, key := range md.Keys() {
		if key == metadata.KeyName || key == metadata.KeyDocstring {
			continue
		}
		_, _ = fmt.Fprintf(app.stdout, "  %s: %s\n", KeyStyle.Render(key), md.String(key))
	}

	doc := md.String(metadata.KeyDocstring)
	if strings.TrimSpace(doc) == "" {
		_, _ = fmt.Fprintf(app.stdout, "\n  %s\n", SubtitleStyle.Render("(no docstring)"))
		return nil
	}
	rendered, err := glamour.Render(doc, app.glamourStyle(app.stdout))
	if err != nil {
		return app.fail(err, "render docstring", source)
	}
	_, _ = fmt.Fprint(app.stdout, rendered)
	return nil
}
