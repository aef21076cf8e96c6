// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// SampleScript is a small Python module carrying the dunder metadata bao
// reads. Tests that only need "some valid script" use it as-is.
const SampleScript = `#!/usr/bin/env python3
# coding: utf8
"""Fetch the weather for a city.

    Prints a one-line forecast.
"""

__version__ = "1.2.3"
__author__ = 'Jane'
__license__ = "MIT"
__email__ = "jane@example.com"

import sys


def main():
    print(sys.argv)
`

// WriteTree creates files under root from a map of slash-separated relative
// paths to contents. Parent directories are created as needed.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
}

// WriteScript writes src to <dir>/<name> and returns the full path.
func WriteScript(t testing.TB, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	MustWriteFile(t, path, src)
	return path
}
