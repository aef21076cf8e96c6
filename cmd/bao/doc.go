// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for bao.
//
// This package implements the Cobra command hierarchy for the bao CLI: the
// root command with its global flags, the packaging commands (info, init,
// check, build, unpack) and the config command tree. Commands are built
// around an App, which carries the configuration provider and the output
// streams so tests can drive the whole tree without touching the process
// environment.
package cmd
