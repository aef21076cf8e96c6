// SPDX-License-Identifier: MPL-2.0

package pyfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/baopkg/bao/pkg/fspath"
	"github.com/baopkg/bao/pkg/platform"
	"github.com/baopkg/bao/pkg/types"
)

const (
	// ModuleExt is the file extension of a Python module.
	ModuleExt = ".py"

	// PackageInitFile marks a directory as a Python package.
	PackageInitFile = "__init__.py"
)

// ErrInvalidSourcePath is the sentinel error wrapped by InvalidSourcePathError.
var ErrInvalidSourcePath = errors.New("source is neither a file nor a directory")

// InvalidSourcePathError is returned by CopyPath when the source does not
// exist or is not a regular file or directory.
type InvalidSourcePathError struct {
	Path types.FilesystemPath
}

// Error implements the error interface.
func (e *InvalidSourcePathError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidSourcePath, e.Path)
}

// Unwrap returns ErrInvalidSourcePath for errors.Is() compatibility.
func (e *InvalidSourcePathError) Unwrap() error { return ErrInvalidSourcePath }

// CopyPath copies src into the directory dst.
//
// A regular file is copied to <dst>/<base(src)> with its mode and
// modification time. A directory is copied recursively to <dst>/<base(src)>,
// keeping modes and times of every entry; the copy fails if that target
// already exists. Symlinks are followed. Anything else fails with an
// *InvalidSourcePathError.
func CopyPath(src, dst types.FilesystemPath) error {
	info, err := os.Stat(string(src))
	if err != nil || (!info.Mode().IsRegular() && !info.IsDir()) {
		return &InvalidSourcePathError{Path: src}
	}

	target := fspath.JoinStr(dst, fspath.Base(src))
	opts := copy.Options{
		OnSymlink:     func(string) copy.SymlinkAction { return copy.Deep },
		PreserveTimes: true,
	}

	if info.IsDir() {
		if _, statErr := os.Lstat(string(target)); statErr == nil {
			return fmt.Errorf("failed to copy %s: %w: %s", src, fs.ErrExist, target)
		}
	} else if err := os.MkdirAll(string(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := copy.Copy(string(src), string(target), opts); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}

// ValidModulePath reports whether path is an importable Python module: an
// existing regular file with a .py extension, or an existing directory
// holding a regular __init__.py file. It never fails; any stat error means
// false.
func ValidModulePath(path types.FilesystemPath) bool {
	info, err := os.Stat(string(path))
	if err != nil {
		return false
	}
	if info.Mode().IsRegular() {
		// A bare ".py" is a dotfile with no extension.
		return fspath.Ext(path) == ModuleExt && fspath.Base(path) != ModuleExt
	}
	if !info.IsDir() {
		return false
	}
	initInfo, err := os.Stat(string(fspath.JoinStr(path, PackageInitFile)))
	return err == nil && initInfo.Mode().IsRegular()
}

// ModuleSource returns the file holding the module-level code of a valid
// module path: the script itself, or the package's __init__.py.
func ModuleSource(path types.FilesystemPath) types.FilesystemPath {
	if info, err := os.Stat(string(path)); err == nil && info.IsDir() {
		return fspath.JoinStr(path, PackageInitFile)
	}
	return path
}

// NonPortableNames returns the paths under src, relative to its parent and
// slash-separated, whose base name Windows cannot store. src itself is
// included. Such files build fine but cannot be unpacked on Windows.
func NonPortableNames(src types.FilesystemPath) ([]string, error) {
	parent := filepath.Dir(string(src))
	var names []string
	err := filepath.WalkDir(string(src), func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !platform.IsWindowsReservedName(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", src, err)
	}
	return names, nil
}
