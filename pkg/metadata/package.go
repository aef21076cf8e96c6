// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/baopkg/bao/pkg/cueutil"
)

//go:embed package_schema.cue
var packageSchema []byte

// ErrInvalidPackage is returned when package metadata fails schema validation.
var ErrInvalidPackage = errors.New("invalid package metadata")

// Package is the typed view of filled package metadata. Attributes that are
// not package attributes (extra dunder constants such as __credits__) are
// kept in Extra.
type Package struct {
	Name        string         `json:"name" toml:"name" mapstructure:"name"`
	Version     string         `json:"version" toml:"version" mapstructure:"version"`
	Author      string         `json:"author" toml:"author" mapstructure:"author"`
	License     string         `json:"license" toml:"license" mapstructure:"license"`
	Copyright   string         `json:"copyright" toml:"copyright" mapstructure:"copyright"`
	Doc         string         `json:"doc" toml:"doc" mapstructure:"doc"`
	Maintainer  string         `json:"maintainer" toml:"maintainer" mapstructure:"maintainer"`
	Email       string         `json:"email" toml:"email" mapstructure:"email"`
	PipRequires []string       `json:"pip_requires" toml:"pip_requires" mapstructure:"pip_requires"`
	Extra       map[string]any `json:"extra,omitempty" toml:"extra,omitempty" mapstructure:",remain"`
}

// FromMetadata decodes filled metadata into a Package. The docstring entry is
// not part of the package record and is dropped; null values are ignored.
// Callers normally run FillDefaults with PackageAttributes first.
func FromMetadata(md Metadata) (Package, error) {
	input := make(map[string]any, len(md))
	for k, v := range md {
		if k == KeyDocstring || isNull(v) {
			continue
		}
		input[k] = v
	}

	var pkg Package
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &pkg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Package{}, fmt.Errorf("building metadata decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return Package{}, fmt.Errorf("decoding package metadata: %w", err)
	}
	if pkg.PipRequires == nil {
		pkg.PipRequires = []string{}
	}
	if len(pkg.Extra) == 0 {
		pkg.Extra = nil
	}
	return pkg, nil
}

// Validate checks the package against the embedded #Package CUE schema.
func (p Package) Validate() error {
	if err := cueutil.ValidateGo(packageSchema, "#Package", p, ManifestFileName); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPackage, err)
	}
	return nil
}

// Metadata converts the package back into a metadata record.
func (p Package) Metadata() Metadata {
	md := Metadata{
		KeyName:        p.Name,
		KeyVersion:     p.Version,
		KeyAuthor:      p.Author,
		KeyLicense:     p.License,
		KeyCopyright:   p.Copyright,
		KeyDoc:         p.Doc,
		KeyMaintainer:  p.Maintainer,
		KeyEmail:       p.Email,
		KeyPipRequires: append([]string{}, p.PipRequires...),
	}
	for k, v := range p.Extra {
		md[k] = v
	}
	return md
}

// ArchiveName returns the file name of the package bundle,
// "<name>-<version>.bao.zip".
func (p Package) ArchiveName() string {
	return fmt.Sprintf("%s-%s%s", p.Name, p.Version, ArchiveSuffix)
}
