// SPDX-License-Identifier: MPL-2.0

package build

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baopkg/bao/internal/testutil"
	"github.com/baopkg/bao/pkg/metadata"
	"github.com/baopkg/bao/pkg/types"
)

func zipEntries(t *testing.T, path types.FilesystemPath) []string {
	t.Helper()

	zr, err := zip.OpenReader(string(path))
	require.NoError(t, err)
	defer testutil.MustClose(t, zr)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestRunScript(t *testing.T) {
	t.Parallel()

	src := testutil.WriteScript(t, t.TempDir(), "weather.py", testutil.SampleScript)
	out := t.TempDir()

	result, err := Run(context.Background(), Options{
		Source:    types.FilesystemPath(src),
		OutputDir: types.FilesystemPath(out),
	})
	require.NoError(t, err)

	assert.Equal(t, types.FilesystemPath(filepath.Join(out, "weather-1.2.3.bao.zip")), result.ArchivePath)
	assert.Equal(t, "weather", result.Package.Name)
	assert.Equal(t, "Jane", result.Package.Author)
	assert.Equal(t, "Fetch the weather for a city.\n\nPrints a one-line forecast.", result.Package.Doc)

	want := []string{"weather-1.2.3/bao.toml", "weather-1.2.3/weather.py"}
	assert.Equal(t, want, result.Files)
	assert.Equal(t, want, zipEntries(t, result.ArchivePath))
}

func TestRunPackageDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	pkgDir := filepath.Join(root, "forecast")
	testutil.WriteTree(t, pkgDir, map[string]string{
		"__init__.py": "__version__ = '0.4'\n__author__ = 'Ann'\n__license__ = 'BSD'\n",
		"core.py":     "def run(): pass\n",
	})

	result, err := Run(context.Background(), Options{
		Source:    types.FilesystemPath(pkgDir),
		OutputDir: types.FilesystemPath(root),
	})
	require.NoError(t, err)

	assert.Equal(t, "forecast", result.Package.Name)
	assert.Equal(t, []string{
		"forecast-0.4/bao.toml",
		"forecast-0.4/forecast/__init__.py",
		"forecast-0.4/forecast/core.py",
	}, result.Files)
}

func TestRunReportsNonPortableNames(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("reserved names cannot be created on Windows")
	}

	root := t.TempDir()
	pkgDir := filepath.Join(root, "tools")
	testutil.WriteTree(t, pkgDir, map[string]string{
		"__init__.py": "__version__ = '1'\n__author__ = 'Ann'\n__license__ = 'BSD'\n",
		"con.py":      "",
	})

	var logs bytes.Buffer
	result, err := Run(context.Background(), Options{
		Source:    types.FilesystemPath(pkgDir),
		OutputDir: types.FilesystemPath(root),
		Logger:    log.New(&logs),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"tools/con.py"}, result.NonPortable)
	assert.Contains(t, result.Files, "tools-1/tools/con.py")
	assert.Contains(t, logs.String(), "reserved on Windows")
}

func TestRunMissingRequiredField(t *testing.T) {
	t.Parallel()

	src := testutil.WriteScript(t, t.TempDir(), "tool.py", "__version__ = '1'\n__license__ = 'MIT'\n")

	_, err := Run(context.Background(), Options{
		Source:    types.FilesystemPath(src),
		OutputDir: types.FilesystemPath(t.TempDir()),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, metadata.ErrMissingField))

	var missing *metadata.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, metadata.KeyAuthor, missing.Field)
}

func TestRunVersionCannotLeaveOutputDir(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	src := testutil.WriteScript(t, filepath.Join(base, "src"), "tool.py",
		"__version__ = '1/../../escaped'\n__author__ = 'A'\n__license__ = 'MIT'\n")
	out := filepath.Join(base, "out")

	_, err := Run(context.Background(), Options{
		Source:    types.FilesystemPath(src),
		OutputDir: types.FilesystemPath(out),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, metadata.ErrInvalidPackage)
	assert.NoFileExists(t, filepath.Join(base, "escaped.bao.zip"))
	assert.NoDirExists(t, out)
}

func TestRunInvalidModule(t *testing.T) {
	t.Parallel()

	src := testutil.WriteScript(t, t.TempDir(), "notes.txt", "hello")

	_, err := Run(context.Background(), Options{Source: types.FilesystemPath(src)})
	assert.ErrorIs(t, err, ErrInvalidModule)
}

func TestRunCanceledContext(t *testing.T) {
	t.Parallel()

	src := testutil.WriteScript(t, t.TempDir(), "weather.py", testutil.SampleScript)
	out := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Source: types.FilesystemPath(src), OutputDir: types.FilesystemPath(out)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(out, "weather-1.2.3.bao.zip"))
}

func TestLoadPackage(t *testing.T) {
	t.Parallel()

	t.Run("config defaults fill gaps only", func(t *testing.T) {
		t.Parallel()

		src := testutil.WriteScript(t, t.TempDir(), "tool.py", "__version__ = '1'\n__author__ = 'Own'\n")

		pkg, _, err := LoadPackage(types.FilesystemPath(src), map[string]string{
			metadata.KeyAuthor:     "Config Author",
			metadata.KeyLicense:    "Apache-2.0",
			metadata.KeyMaintainer: "",
		})
		require.NoError(t, err)
		assert.Equal(t, "Own", pkg.Author)
		assert.Equal(t, "Apache-2.0", pkg.License)
		assert.Empty(t, pkg.Maintainer)
	})

	t.Run("manifest overrides autogenerated values", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := testutil.WriteScript(t, dir, "weather.py", testutil.SampleScript)
		testutil.WriteTree(t, dir, map[string]string{
			metadata.ManifestFileName: "version = '2.0.0'\ndoc = 'Custom doc'\npip_requires = ['requests']\n",
		})

		pkg, md, err := LoadPackage(types.FilesystemPath(src), nil)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", pkg.Version)
		assert.Equal(t, "Custom doc", pkg.Doc)
		assert.Equal(t, []string{"requests"}, pkg.PipRequires)
		assert.Equal(t, "Fetch the weather for a city.\n\nPrints a one-line forecast.", md.String(metadata.KeyDocstring))
	})

	t.Run("schema violation", func(t *testing.T) {
		t.Parallel()

		src := testutil.WriteScript(t, t.TempDir(), "tool.py",
			"__version__ = '1'\n__author__ = 'A'\n__license__ = 'MIT'\n__email__ = 'not-an-email'\n")

		_, _, err := LoadPackage(types.FilesystemPath(src), nil)
		assert.ErrorIs(t, err, metadata.ErrInvalidPackage)
	})
}

func TestModuleMetadataName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"weather.py":           "__version__ = '1'\n",
		"forecast/__init__.py": "__version__ = '2'\n",
	})

	script, err := ModuleMetadata(types.FilesystemPath(filepath.Join(root, "weather.py")))
	require.NoError(t, err)
	assert.Equal(t, "weather", script.String(metadata.KeyName))

	pkg, err := ModuleMetadata(types.FilesystemPath(filepath.Join(root, "forecast") + string(filepath.Separator)))
	require.NoError(t, err)
	assert.Equal(t, "forecast", pkg.String(metadata.KeyName))
	assert.Equal(t, "2", pkg.String(metadata.KeyVersion))
}

func TestManifestPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"pkg/__init__.py": "", "tool.py": ""})

	assert.Equal(t,
		types.FilesystemPath(filepath.Join(root, "pkg", metadata.ManifestFileName)),
		ManifestPath(types.FilesystemPath(filepath.Join(root, "pkg"))))
	assert.Equal(t,
		types.FilesystemPath(filepath.Join(root, metadata.ManifestFileName)),
		ManifestPath(types.FilesystemPath(filepath.Join(root, "tool.py"))))
}
