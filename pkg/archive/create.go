// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"fmt"
	"os"

	"github.com/baopkg/bao/pkg/fspath"
	"github.com/baopkg/bao/pkg/types"
)

// Create archives dir into a new ZIP file at out and returns the absolute
// path of the file. The parent directory of out is created when missing. On
// failure the partially written file is removed.
func Create(dir, out types.FilesystemPath, opts ...Option) (archivePath types.FilesystemPath, err error) {
	absOut, err := fspath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}

	if err = os.MkdirAll(string(fspath.Dir(absOut)), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	zipFile, err := os.Create(string(absOut))
	if err != nil {
		return "", fmt.Errorf("failed to create ZIP file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(string(absOut)) // best-effort cleanup
		}
	}()
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(zipFile)
	if _, err = ZipDir(dir, zw, opts...); err != nil {
		_ = zw.Close()
		return "", err
	}
	if err = zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize ZIP file: %w", err)
	}

	return absOut, nil
}
