// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/baopkg/bao/pkg/fspath"
	"github.com/baopkg/bao/pkg/types"
)

var (
	// ErrEmptyBundle is returned by Extract for archives without entries.
	ErrEmptyBundle = errors.New("bundle has no entries")

	// ErrBundleExists is returned by Extract when the bundle root already
	// exists in the destination and overwriting was not requested.
	ErrBundleExists = errors.New("bundle already extracted")

	// ErrUnsafeEntry is returned by Extract for entries that would be written
	// outside the destination or outside the bundle root.
	ErrUnsafeEntry = errors.New("invalid path in ZIP")
)

// Extract unpacks the bundle at zipPath into destDir and returns the path of
// the extracted root directory. destDir defaults to the working directory and
// is created when missing. An existing root is replaced only when overwrite
// is set. Every entry must live under the same root directory; entries that
// would escape destDir are rejected.
func Extract(zipPath, destDir types.FilesystemPath, overwrite bool) (extractedPath types.FilesystemPath, err error) {
	if destDir == "" {
		destDir = "."
	}
	absDestDir, err := fspath.Abs(destDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination directory: %w", err)
	}

	zipReader, err := zip.OpenReader(string(zipPath))
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = zipReader.Close()
		return "", fmt.Errorf("%w: %w", ErrUnsafeEntry, err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to open ZIP file: %w", err)
	}
	defer func() {
		if closeErr := zipReader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	rootName, err := bundleRoot(zipReader.File)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(string(absDestDir), 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	rootPath := fspath.JoinStr(absDestDir, rootName)
	if _, statErr := os.Lstat(string(rootPath)); statErr == nil {
		if !overwrite {
			return "", fmt.Errorf("%w at %s (use overwrite to replace)", ErrBundleExists, rootPath)
		}
		if err = os.RemoveAll(string(rootPath)); err != nil {
			return "", fmt.Errorf("failed to remove existing bundle: %w", err)
		}
	}

	for _, file := range zipReader.File {
		destPath := filepath.Join(string(absDestDir), filepath.FromSlash(file.Name))

		relPath, relErr := filepath.Rel(string(absDestDir), destPath)
		if relErr != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			_ = os.RemoveAll(string(rootPath))
			return "", fmt.Errorf("%w: %s", ErrUnsafeEntry, file.Name)
		}

		if file.FileInfo().IsDir() {
			if mkdirErr := os.MkdirAll(destPath, 0o755); mkdirErr != nil {
				return "", fmt.Errorf("failed to create directory: %w", mkdirErr)
			}
			continue
		}

		if mkdirErr := os.MkdirAll(filepath.Dir(destPath), 0o755); mkdirErr != nil {
			return "", fmt.Errorf("failed to create parent directory: %w", mkdirErr)
		}
		if extractErr := extractFile(file, destPath); extractErr != nil {
			return "", fmt.Errorf("failed to extract %s: %w", file.Name, extractErr)
		}
	}

	return rootPath, nil
}

// bundleRoot returns the single top-level directory shared by all entries.
func bundleRoot(files []*zip.File) (string, error) {
	if len(files) == 0 {
		return "", ErrEmptyBundle
	}
	var root string
	for _, file := range files {
		first, _, _ := strings.Cut(file.Name, "/")
		if first == "" || first == "." || first == ".." {
			return "", fmt.Errorf("%w: %s", ErrUnsafeEntry, file.Name)
		}
		if root == "" {
			root = first
		} else if first != root {
			return "", fmt.Errorf("%w: %s is outside bundle root %s", ErrUnsafeEntry, file.Name, root)
		}
	}
	return root, nil
}

func extractFile(file *zip.File, destPath string) (err error) {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: bundles are produced by bao build; size is bounded by the filesystem
	if _, err = io.Copy(destFile, rc); err != nil {
		return err
	}
	return os.Chtimes(destPath, file.Modified, file.Modified)
}
