// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Recognized metadata keys.
const (
	KeyName        = "name"
	KeyAuthor      = "author"
	KeyLicense     = "license"
	KeyCopyright   = "copyright"
	KeyVersion     = "version"
	KeyDoc         = "doc"
	KeyMaintainer  = "maintainer"
	KeyEmail       = "email"
	KeyPipRequires = "pip_requires"

	// KeyDocstring holds the module docstring found by Autogen. It is not a
	// package attribute; the build step copies it into KeyDoc when no doc
	// was declared.
	KeyDocstring = "docstring"
)

// Metadata is the key-value record describing a package. Values are strings,
// string lists, or nil for "no value".
type Metadata map[string]any

// PackageAttributes returns the default table for package metadata: name,
// author, license and version are required; everything else defaults to an
// empty value. A fresh table is returned on every call.
func PackageAttributes() map[string]Default[any] {
	return map[string]Default[any]{
		KeyName:        Required[any](),
		KeyAuthor:      Required[any](),
		KeyLicense:     Required[any](),
		KeyCopyright:   Optional[any](""),
		KeyVersion:     Required[any](),
		KeyDoc:         Optional[any](""),
		KeyMaintainer:  Optional[any](""),
		KeyEmail:       Optional[any](""),
		KeyPipRequires: Optional[any]([]string{}),
	}
}

// IsPackageAttribute reports whether key is one of the recognized package
// attribute keys.
func IsPackageAttribute(key string) bool {
	_, ok := PackageAttributes()[key]
	return ok
}

// String returns the value of key as a string. Missing keys, nil values and
// non-string values yield "".
func (m Metadata) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Strings returns the value of key as a string list. A single string is
// returned as a one-element list.
func (m Metadata) Strings(key string) []string {
	switch v := m[key].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{v}
	default:
		return nil
	}
}

// Has reports whether key holds a non-null value.
func (m Metadata) Has(key string) bool {
	v, ok := m[key]
	return ok && !isNull(v)
}

// Merge copies every non-null value of other into m, overwriting existing
// entries.
func (m Metadata) Merge(other Metadata) {
	for k, v := range other {
		if !isNull(v) {
			m[k] = cloneValue(v)
		}
	}
}

// Keys returns the keys of m in sorted order.
func (m Metadata) Keys() []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// Clone returns a copy of m. List values are copied as well.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}
