// SPDX-License-Identifier: MPL-2.0

// Package issue turns bao failures into something a user can act on.
//
// ActionableError records the operation, resource and suggested fixes for a
// single failure. Issue entries, looked up by Id, carry longer Markdown help
// that the CLI renders with glamour below the error.
package issue
