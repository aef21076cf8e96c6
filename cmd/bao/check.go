// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baopkg/bao/pkg/build"
	"github.com/baopkg/bao/pkg/pyfs"
	"github.com/baopkg/bao/pkg/types"
)

func newCheckCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Check that a script or package can be built",
		Long: `Check that a script or package can be built.

Reports whether the path is a Python module (a .py file, or a directory
with __init__.py) and whether its metadata fills every required package
attribute and passes validation. File names Windows cannot store (con.py,
aux/, ...) are reported as a warning. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(app, args[0])
		},
	}
}

func runCheck(app *App, source string) error {
	path := types.FilesystemPath(source)

	if !pyfs.ValidModulePath(path) {
		printCheck(app, false, "module path", source)
		return app.fail(fmt.Errorf("%w: %s", build.ErrInvalidModule, source), "check package", source, suggestionsFor(build.ErrInvalidModule)...)
	}
	printCheck(app, true, "module path", source)

	pkg, _, err := build.LoadPackage(path, app.cfg.Defaults.AsMap())
	if err != nil {
		printCheck(app, false, "metadata", err.Error())
		return app.fail(err, "check package", source, suggestionsFor(err)...)
	}
	printCheck(app, true, "metadata", fmt.Sprintf("%s %s", pkg.Name, pkg.Version))

	nonPortable, err := pyfs.NonPortableNames(path)
	if err != nil {
		return app.fail(err, "check package", source)
	}
	if len(nonPortable) == 0 {
		printCheck(app, true, "portable file names", "")
		return nil
	}
	// Reserved names only break unpacking on Windows, so they warn.
	_, _ = fmt.Fprintf(app.stdout, "%s portable file names %s\n",
		WarningStyle.Render("!"), SubtitleStyle.Render(strings.Join(nonPortable, ", ")))

	return nil
}

func printCheck(app *App, ok bool, what, detail string) {
	mark := SuccessStyle.Render("✓")
	if !ok {
		mark = ErrorStyle.Render("✗")
	}
	if detail == "" {
		_, _ = fmt.Fprintf(app.stdout, "%s %s\n", mark, what)
		return
	}
	_, _ = fmt.Fprintf(app.stdout, "%s %s %s\n", mark, what, SubtitleStyle.Render(detail))
}
