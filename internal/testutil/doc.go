// SPDX-License-Identifier: MPL-2.0

// Package testutil holds fixtures and Must* helpers shared by bao tests.
// Helpers fail the test on error so call sites stay one line long.
//
// Helpers that touch process state (MustChdir, MustSetenv, SetHomeDir) must
// not be used from parallel tests.
package testutil
