// SPDX-License-Identifier: MPL-2.0

// Package archive writes and reads bao bundles.
//
// A bundle is a ZIP file whose entries all live under one root directory,
// named after the directory that was archived:
//
//	weather-1.2.3/bao.toml
//	weather-1.2.3/weather.py
//
// ZipDir is the low-level primitive and writes into a caller-owned
// *zip.Writer. Create and Extract manage the archive file themselves.
package archive
