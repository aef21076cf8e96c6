// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/baopkg/bao/internal/watch"
	"github.com/baopkg/bao/pkg/build"
	"github.com/baopkg/bao/pkg/fspath"
	"github.com/baopkg/bao/pkg/metadata"
	"github.com/baopkg/bao/pkg/types"
)

func newBuildCommand(app *App) *cobra.Command {
	var (
		outputDir string
		watchMode bool
	)

	cmd := &cobra.Command{
		Use:   "build <path>",
		Short: "Build a bao bundle from a script or package",
		Long: `Build a bao bundle from a script or package.

The bundle is a zip archive named <name>-<version>.bao.zip holding a
single <name>-<version>/ directory with the sources and a bao.toml
manifest. It is written to --output, or to output_dir from the bao
config, or to the current directory.

With --watch the bundle is rebuilt whenever the sources or bao.toml
change, until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchMode {
				return watchBuild(cmd.Context(), app, args[0], outputDir)
			}
			return runBuild(cmd.Context(), app, args[0], outputDir)
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory to write the bundle to")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "rebuild when the sources change")

	return cmd
}

func runBuild(ctx context.Context, app *App, source, outputDir string) error {
	if outputDir == "" {
		outputDir = app.cfg.OutputDir
	}

	result, err := build.Run(ctx, build.Options{
		Source:    types.FilesystemPath(source),
		OutputDir: types.FilesystemPath(outputDir),
		Defaults:  app.cfg.Defaults.AsMap(),
		Logger:    app.logger,
	})
	if err != nil {
		return app.fail(err, "build package", source, suggestionsFor(err)...)
	}

	size := "unknown size"
	if info, statErr := os.Stat(string(result.ArchivePath)); statErr == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	_, _ = fmt.Fprintf(app.stdout, "%s %s (%s, %d files)\n",
		SuccessStyle.Render("Built"), KeyStyle.Render(string(result.ArchivePath)), size, len(result.Files))

	if app.flags.verbose {
		for _, file := range result.Files {
			_, _ = fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render(file))
		}
	}
	return nil
}

// watchBuild builds once, then rebuilds on every change until ctx is done.
// Failed rebuilds are reported and watching continues.
func watchBuild(ctx context.Context, app *App, source, outputDir string) error {
	if err := runBuild(ctx, app, source, outputDir); err != nil {
		return err
	}

	baseDir, patterns := watchScope(types.FilesystemPath(source))
	w, err := watch.New(watch.Config{
		BaseDir:  baseDir,
		Patterns: patterns,
		Logger:   app.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			app.logger.Info("rebuilding", "changed", changed)
			if err := runBuild(ctx, app, source, outputDir); err != nil {
				var svcErr *ServiceError
				if errors.As(err, &svcErr) {
					renderServiceError(app.stderr, svcErr, app.glamourStyle(app.stderr))
					return nil
				}
				return err
			}
			return nil
		},
	})
	if err != nil {
		return app.fail(err, "watch sources", source)
	}

	_, _ = fmt.Fprintf(app.stdout, "%s %s %s\n",
		SubtitleStyle.Render("Watching"), KeyStyle.Render(baseDir), SubtitleStyle.Render("(Ctrl+C to stop)"))
	if err := w.Run(ctx); err != nil {
		return app.fail(err, "watch sources", source)
	}
	return nil
}

// watchScope returns the tree to watch for source and the patterns that
// select its inputs: the whole package directory, or just a script and the
// bao.toml beside it.
func watchScope(source types.FilesystemPath) (baseDir string, patterns []string) {
	if info, err := os.Stat(string(source)); err == nil && info.IsDir() {
		return string(source), nil
	}
	return string(fspath.Dir(source)), []string{string(fspath.Base(source)), metadata.ManifestFileName}
}
