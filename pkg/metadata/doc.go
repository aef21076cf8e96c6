// SPDX-License-Identifier: MPL-2.0

// Package metadata builds the metadata record of a bao package.
//
// A bao package is a Python script (or package directory) plus a small
// metadata record. The record is assembled in three steps:
//
//   - [Autogen] reads the script, extracts its module docstring and every
//     `__attr__ = "value"` constant it declares at the start of a line.
//   - [FillDefaults] merges [PackageAttributes] (or any other default table)
//     into the record, failing with [MissingFieldError] for required keys.
//   - [FromMetadata] decodes the record into a typed [Package] that is
//     validated against an embedded CUE schema and persisted as bao.toml
//     ([WriteManifest], [ReadManifest]).
//
// # Dunder scanning
//
// Source scanning is deliberately line oriented: only lines starting with
// "__" are considered, and only the first `__name__ = 'literal'` match on
// each of them is kept. Lines that do not match are skipped silently, so
// computed values such as `__version__ = get_version()` are simply ignored.
package metadata
