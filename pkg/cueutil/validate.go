// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ValidateGo encodes v (using its json tags), unifies it with the schema
// definition at schemaPath and validates the result concretely. filename is
// only used for error messages.
func ValidateGo(schema []byte, schemaPath string, v any, filename string) error {
	ctx := cuecontext.New()
	def, err := lookupDefinition(ctx, schema, schemaPath)
	if err != nil {
		return err
	}

	encoded := ctx.Encode(v)
	if encoded.Err() != nil {
		return FormatError(encoded.Err(), filename)
	}
	if err := def.Unify(encoded).Validate(cue.Concrete(true)); err != nil {
		return FormatError(err, filename)
	}
	return nil
}
