// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes platform-specific knowledge: runtime.GOOS
// names used to locate the config directory, and the file names Windows
// cannot store, which bao reports so bundles stay portable.
package platform
