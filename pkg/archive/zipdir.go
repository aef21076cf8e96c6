// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/baopkg/bao/pkg/types"
)

// EmptyZip is the complete content of a ZIP archive without entries: a bare
// end-of-central-directory record.
var EmptyZip = [22]byte{'P', 'K', 0x05, 0x06}

var (
	// ErrNotADirectory is returned when the path to archive is not a directory.
	ErrNotADirectory = errors.New("can't compress path: not a directory")

	// ErrInvalidWriter is returned when no usable archive writer is supplied.
	ErrInvalidWriter = errors.New("not a zip writer")
)

type (
	// InvalidArchiveTargetError reports why ZipDir refused its input. Err is
	// ErrNotADirectory or ErrInvalidWriter.
	InvalidArchiveTargetError struct {
		Path types.FilesystemPath
		Err  error
	}

	// Option configures ZipDir and Create.
	Option func(*options)

	options struct {
		logger *log.Logger
	}
)

// Error implements the error interface.
func (e *InvalidArchiveTargetError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Path)
}

// Unwrap returns the underlying sentinel for errors.Is() compatibility.
func (e *InvalidArchiveTargetError) Unwrap() error { return e.Err }

// WithLogger sets the logger that receives one debug line per archived file.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ZipDir writes every regular file below dir into zw and returns zw.
//
// Entries are named <base(dir)>/<path relative to dir> with forward slashes,
// compressed with Deflate and carry the file's mode and modification time.
// The tree is walked in lexical order, so the entry order is stable.
// Symlinks to regular files are archived as the file they point to; other
// non-regular entries are skipped. A symlinked dir is followed but the
// entries keep its own base name. The writer is neither flushed nor closed.
func ZipDir(dir types.FilesystemPath, zw *zip.Writer, opts ...Option) (*zip.Writer, error) {
	info, err := os.Stat(string(dir))
	if err != nil || !info.IsDir() {
		return nil, &InvalidArchiveTargetError{Path: dir, Err: ErrNotADirectory}
	}
	if zw == nil {
		return nil, &InvalidArchiveTargetError{Path: dir, Err: ErrInvalidWriter}
	}

	o := newOptions(opts)
	rootName := filepath.Base(filepath.Clean(string(dir)))
	// WalkDir does not descend into a symlinked root.
	root, err := filepath.EvalSymlinks(string(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		fileInfo, infoErr := os.Stat(path)
		if infoErr != nil {
			return fmt.Errorf("failed to get file info: %w", infoErr)
		}
		if !fileInfo.Mode().IsRegular() {
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		entryName := rootName + "/" + filepath.ToSlash(relPath)

		o.logger.Debug("adding file", "entry", entryName)
		return addFile(zw, path, entryName, fileInfo)
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to archive %s: %w", dir, walkErr)
	}

	return zw, nil
}

func addFile(zw *zip.Writer, path, entryName string, info fs.FileInfo) (err error) {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = entryName
	header.Method = zip.Deflate

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create ZIP entry: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.Copy(writer, f); err != nil {
		return fmt.Errorf("failed to write file data: %w", err)
	}
	return nil
}
