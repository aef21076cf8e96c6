// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing and validation utilities.
//
// Two flows are supported:
//
//  1. ParseAndDecode: compile an embedded schema, compile user-provided CUE
//     data, unify them, validate, and decode into a Go struct. The config
//     package uses this for config.cue.
//  2. ValidateGo: encode an existing Go value, unify it with a schema
//     definition and validate it. The metadata package uses this to check a
//     Package before it is written to bao.toml.
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes CUE path for debugging
//	}
//	return result.Value, nil
package cueutil
