// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baopkg/bao/pkg/archive"
	"github.com/baopkg/bao/pkg/types"
)

func newUnpackCommand(app *App) *cobra.Command {
	var (
		destDir   string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "unpack <bundle>",
		Short: "Extract a bao bundle",
		Long: `Extract a bao bundle.

The bundle's single top-level directory is created inside --dest.
Entries that would land outside it are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(app, args[0], destDir, overwrite)
		},
	}
	cmd.Flags().StringVarP(&destDir, "dest", "d", ".", "directory to extract into")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an already extracted bundle")

	return cmd
}

func runUnpack(app *App, bundle, destDir string, overwrite bool) error {
	extracted, err := archive.Extract(types.FilesystemPath(bundle), types.FilesystemPath(destDir), overwrite)
	if err != nil {
		var suggestions []string
		if errors.Is(err, archive.ErrBundleExists) {
			suggestions = append(suggestions, "Run 'bao unpack --overwrite' to replace it")
		}
		return app.fail(err, "unpack bundle", bundle, suggestions...)
	}
	app.logger.Debug("extracted bundle", "bundle", bundle, "path", extracted)

	_, _ = fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Unpacked to"), KeyStyle.Render(string(extracted)))
	return nil
}
