// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/baopkg/bao/pkg/archive"
	"github.com/baopkg/bao/pkg/fspath"
	"github.com/baopkg/bao/pkg/metadata"
	"github.com/baopkg/bao/pkg/pyfs"
	"github.com/baopkg/bao/pkg/types"
)

// ErrInvalidModule is returned when the source is not an importable Python
// module.
var ErrInvalidModule = errors.New("not a python module (expected a .py file or a directory with __init__.py)")

type (
	// Options configures a build.
	Options struct {
		// Source is a .py script or a package directory.
		Source types.FilesystemPath
		// OutputDir receives the bundle. Defaults to the working directory.
		OutputDir types.FilesystemPath
		// Defaults fill attributes that neither the source nor its bao.toml
		// declare, typically author and license from the user config.
		Defaults map[string]string
		// Logger receives progress messages. Defaults to a discarding logger.
		Logger *log.Logger
	}

	// Result describes a finished build.
	Result struct {
		Package     metadata.Package
		ArchivePath types.FilesystemPath
		// Files lists the bundle entries in archive order.
		Files []string
		// NonPortable lists source paths that cannot be unpacked on Windows.
		NonPortable []string
	}
)

// Run builds the bundle described by opts.
//
// The steps are: resolve the package record with LoadPackage, stage the
// sources and a fresh bao.toml under <tmp>/<name>-<version>, and archive the
// staging directory to <OutputDir>/<name>-<version>.bao.zip. The staging
// directory is always removed. ctx is checked between steps.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	pkg, _, err := LoadPackage(opts.Source, opts.Defaults)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("resolved package", "name", pkg.Name, "version", pkg.Version)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	nonPortable, err := pyfs.NonPortableNames(opts.Source)
	if err != nil {
		return Result{}, err
	}
	for _, name := range nonPortable {
		logger.Warn("file name is reserved on Windows", "path", name)
	}

	stagingDir, err := os.MkdirTemp("", "bao-build-*")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(stagingDir) }() // best-effort cleanup

	bundleRoot := fspath.JoinStr(types.FilesystemPath(stagingDir), fmt.Sprintf("%s-%s", pkg.Name, pkg.Version))
	if err := pyfs.CopyPath(opts.Source, bundleRoot); err != nil {
		return Result{}, fmt.Errorf("failed to stage sources: %w", err)
	}
	if err := metadata.WriteManifest(fspath.JoinStr(bundleRoot, metadata.ManifestFileName), pkg); err != nil {
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	files, err := listFiles(bundleRoot)
	if err != nil {
		return Result{}, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	target := fspath.JoinStr(outputDir, pkg.ArchiveName())
	if fspath.Dir(target) != fspath.Clean(outputDir) {
		return Result{}, fmt.Errorf("%w: bundle name %q leaves the output directory", metadata.ErrInvalidPackage, pkg.ArchiveName())
	}
	archivePath, err := archive.Create(bundleRoot, target, archive.WithLogger(logger))
	if err != nil {
		return Result{}, err
	}
	logger.Info("built bundle", "path", archivePath, "files", len(files))

	return Result{Package: pkg, ArchivePath: archivePath, Files: files, NonPortable: nonPortable}, nil
}

// LoadPackage derives the validated package record of source.
//
// Metadata is autogenerated from the script (or the package's __init__.py,
// named after the directory), then overlaid with the manifest returned by
// ManifestPath when one exists. An empty doc falls back to the module
// docstring. defaults fill the remaining gaps before the package attribute
// table is applied, so a missing required attribute fails with
// metadata.ErrMissingField. The filled metadata is returned alongside the
// package so callers can show attributes outside the package record.
func LoadPackage(source types.FilesystemPath, defaults map[string]string) (metadata.Package, metadata.Metadata, error) {
	if !pyfs.ValidModulePath(source) {
		return metadata.Package{}, nil, fmt.Errorf("%w: %s", ErrInvalidModule, source)
	}

	md, err := ModuleMetadata(source)
	if err != nil {
		return metadata.Package{}, nil, err
	}

	manifestPath := ManifestPath(source)
	if _, statErr := os.Stat(string(manifestPath)); statErr == nil {
		manifest, err := metadata.ReadManifest(manifestPath)
		if err != nil {
			return metadata.Package{}, nil, err
		}
		md.Merge(manifest)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return metadata.Package{}, nil, fmt.Errorf("failed to stat manifest: %w", statErr)
	}

	if md.String(metadata.KeyDoc) == "" && md.Has(metadata.KeyDocstring) {
		md[metadata.KeyDoc] = md.String(metadata.KeyDocstring)
	}

	for key, value := range defaults {
		if value != "" && !md.Has(key) {
			md[key] = value
		}
	}

	if err := metadata.FillDefaults(md, metadata.PackageAttributes()); err != nil {
		return metadata.Package{}, nil, err
	}

	pkg, err := metadata.FromMetadata(md)
	if err != nil {
		return metadata.Package{}, nil, err
	}
	if err := pkg.Validate(); err != nil {
		return metadata.Package{}, nil, err
	}
	return pkg, md, nil
}

// ModuleMetadata autogenerates the metadata of a script or package
// directory. A package reads its __init__.py but is named after the
// directory.
func ModuleMetadata(source types.FilesystemPath) (metadata.Metadata, error) {
	script := pyfs.ModuleSource(source)
	md, err := metadata.Autogen(script)
	if err != nil {
		return nil, err
	}
	if script != source {
		md[metadata.KeyName] = fspath.Base(fspath.Clean(source))
	}
	return md, nil
}

// ManifestPath returns where the bao.toml of source lives: next to a script,
// or inside a package directory.
func ManifestPath(source types.FilesystemPath) types.FilesystemPath {
	if info, err := os.Stat(string(source)); err == nil && info.IsDir() {
		return fspath.JoinStr(source, metadata.ManifestFileName)
	}
	return fspath.JoinStr(fspath.Dir(source), metadata.ManifestFileName)
}

// listFiles returns the archive entry names ZipDir will produce for root.
func listFiles(root types.FilesystemPath) ([]string, error) {
	base := fspath.Base(root)
	var files []string
	err := filepath.WalkDir(string(root), func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(string(root), path)
		if err != nil {
			return err
		}
		files = append(files, base+"/"+filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}
	return files, nil
}
