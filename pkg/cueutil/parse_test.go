// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Settings: close({
	owner:  string
	retries: int & >=0 | *3
	tags?: [...string]
})
`

type testSettings struct {
	Owner   string   `json:"owner"`
	Retries int      `json:"retries"`
	Tags    []string `json:"tags,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("decodes and applies schema defaults", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`owner: "jane"`), "#Settings")
		if err != nil {
			t.Fatalf("ParseAndDecode() error = %v", err)
		}
		if result.Value.Owner != "jane" {
			t.Errorf("Owner = %q, want %q", result.Value.Owner, "jane")
		}
		if result.Value.Retries != 3 {
			t.Errorf("Retries = %d, want 3", result.Value.Retries)
		}
		if !result.Unified.Exists() {
			t.Error("Unified value should exist")
		}
	})

	t.Run("type mismatch reports file and path", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`owner: 42`), "#Settings",
			WithFilename("settings.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		msg := err.Error()
		if !strings.Contains(msg, "settings.cue") {
			t.Errorf("error should name the file, got: %v", err)
		}
		if !strings.Contains(msg, "owner") {
			t.Errorf("error should name the field, got: %v", err)
		}
	})

	t.Run("closed definition rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte("owner: \"jane\"\ncolour: \"red\""), "#Settings")
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("syntax error is reported", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`owner: "jane`), "#Settings",
			WithFilename("broken.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "broken.cue") {
			t.Errorf("error should name the file, got: %v", err)
		}
	})

	t.Run("concrete option rejects missing fields", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`retries: 1`), "#Settings",
			WithConcrete(true))
		if err == nil {
			t.Fatal("expected error for non-concrete owner")
		}
	})

	t.Run("oversized input is rejected before parsing", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`owner: "jane"`), "#Settings",
			WithMaxFileSize(4), WithFilename("big.cue"))
		if err == nil {
			t.Fatal("expected size error")
		}
		if !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unknown definition is an internal error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(`owner: "jane"`), "#Missing")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "#Missing") {
			t.Errorf("error should name the definition, got: %v", err)
		}
	})
}

func TestValidateGo(t *testing.T) {
	t.Parallel()

	schema := []byte(testSchema)

	t.Run("valid value", func(t *testing.T) {
		t.Parallel()

		v := testSettings{Owner: "jane", Retries: 1, Tags: []string{"a"}}
		if err := ValidateGo(schema, "#Settings", v, "settings.cue"); err != nil {
			t.Errorf("ValidateGo() error = %v", err)
		}
	})

	t.Run("constraint violation names the field", func(t *testing.T) {
		t.Parallel()

		v := testSettings{Owner: "jane", Retries: -1}
		err := ValidateGo(schema, "#Settings", v, "settings.cue")
		if err == nil {
			t.Fatal("expected error for negative retries")
		}
		if !strings.Contains(err.Error(), "retries") {
			t.Errorf("error should name the field, got: %v", err)
		}
		if !strings.HasPrefix(err.Error(), "settings.cue: ") {
			t.Errorf("error should start with the file name, got: %v", err)
		}
	})
}
