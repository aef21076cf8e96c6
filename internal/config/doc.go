// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/bao/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/bao/config.cue on macOS, %APPDATA%\bao\config.cue
// on Windows). It holds the package attribute defaults applied by "bao build"
// and "bao init", the default output directory and UI settings. Values can be
// overridden with BAO_* environment variables, e.g. BAO_DEFAULTS_AUTHOR.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
