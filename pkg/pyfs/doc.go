// SPDX-License-Identifier: MPL-2.0

// Package pyfs holds the filesystem helpers bao needs around Python sources:
// deciding whether a path is an importable module and copying scripts or
// package trees into a staging directory.
package pyfs
