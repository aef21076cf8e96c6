// SPDX-License-Identifier: MPL-2.0

// Package build turns a Python script or package directory into a bao
// bundle. It chains the other packages: pyfs validates and stages the
// sources, metadata derives and checks the package record, and archive
// writes the bundle.
package build
