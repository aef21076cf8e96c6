// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrMissingField is the sentinel error wrapped by MissingFieldError.
var ErrMissingField = errors.New("field required")

type (
	// Default is an entry of a default table. It either carries a value that
	// is filled into missing keys, or marks the key as required.
	Default[V any] struct {
		value    V
		required bool
	}

	// MissingFieldError is returned by FillDefaults when a required key is
	// absent (or null) in the target map.
	MissingFieldError struct {
		Field string
	}
)

// Optional returns a default that fills v into missing keys.
func Optional[V any](v V) Default[V] {
	return Default[V]{value: v}
}

// Required returns a default that marks its key as required.
func Required[V any]() Default[V] {
	return Default[V]{required: true}
}

// IsRequired reports whether the default marks a required key.
func (d Default[V]) IsRequired() bool { return d.required }

// Value returns the default value. It is the zero value for required keys.
func (d Default[V]) Value() V { return d.value }

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field required: %s", e.Field)
}

// Unwrap returns ErrMissingField for errors.Is() compatibility.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// FillDefaults sets every key of defaults that is absent or null in data.
// Keys holding a non-null value are left untouched. When a key is missing and
// its default is Required, FillDefaults returns a *MissingFieldError naming
// it. Keys are visited in sorted order, so the reported key is deterministic
// and every key sorting before it has already been filled.
//
// data is mutated in place. Slice and map defaults are copied before being
// stored, so later edits of data never leak back into the default table.
func FillDefaults[M ~map[K]V, K cmp.Ordered, V any](data M, defaults map[K]Default[V]) error {
	keys := maps.Keys(defaults)
	slices.Sort(keys)

	for _, key := range keys {
		if current, ok := data[key]; ok && !isNull(current) {
			continue
		}
		def := defaults[key]
		if def.required {
			return &MissingFieldError{Field: fmt.Sprint(key)}
		}
		data[key] = cloneValue(def.value)
	}
	return nil
}

// isNull reports whether v is "no value": an untyped nil or a nil pointer,
// slice, map, interface, func or channel.
func isNull[V any](v V) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func cloneValue[V any](v V) V {
	switch x := any(v).(type) {
	case []string:
		if out, ok := any(slices.Clone(x)).(V); ok {
			return out
		}
	case []any:
		if out, ok := any(slices.Clone(x)).(V); ok {
			return out
		}
	case map[string]string:
		if out, ok := any(maps.Clone(x)).(V); ok {
			return out
		}
	case map[string]any:
		if out, ok := any(maps.Clone(x)).(V); ok {
			return out
		}
	}
	return v
}
