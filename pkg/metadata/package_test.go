// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPackage() Package {
	return Package{
		Name:        "weather",
		Version:     "1.2.3",
		Author:      "Jane",
		License:     "MIT",
		Email:       "jane@example.com",
		PipRequires: []string{"requests>=2"},
	}
}

func TestFromMetadata(t *testing.T) {
	t.Parallel()

	md := Metadata{
		KeyName:        "weather",
		KeyVersion:     "1.2.3",
		KeyAuthor:      "Jane",
		KeyLicense:     "MIT",
		KeyDocstring:   "Fetch the weather.",
		KeyPipRequires: []any{"requests", "rich"},
		KeyMaintainer:  nil,
		"credits":      "Bob",
	}

	pkg, err := FromMetadata(md)
	require.NoError(t, err)

	assert.Equal(t, "weather", pkg.Name)
	assert.Equal(t, "1.2.3", pkg.Version)
	assert.Empty(t, pkg.Doc, "docstring is not copied into doc")
	assert.Empty(t, pkg.Maintainer)
	assert.Equal(t, []string{"requests", "rich"}, pkg.PipRequires)
	assert.Equal(t, map[string]any{"credits": "Bob"}, pkg.Extra)
}

func TestFromMetadataEmptyLists(t *testing.T) {
	t.Parallel()

	pkg, err := FromMetadata(Metadata{KeyName: "x"})
	require.NoError(t, err)
	assert.NotNil(t, pkg.PipRequires)
	assert.Empty(t, pkg.PipRequires)
	assert.Nil(t, pkg.Extra)
}

func TestPackageValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, validPackage().Validate())
	})

	t.Run("valid with extra attributes", func(t *testing.T) {
		t.Parallel()

		pkg := validPackage()
		pkg.Extra = map[string]any{"credits": "Bob"}
		require.NoError(t, pkg.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Package)
	}{
		{name: "name with spaces", mutate: func(p *Package) { p.Name = "my tool" }},
		{name: "empty name", mutate: func(p *Package) { p.Name = "" }},
		{name: "empty version", mutate: func(p *Package) { p.Version = "" }},
		{name: "version with path separator", mutate: func(p *Package) { p.Version = "1/../../escaped" }},
		{name: "version with backslash", mutate: func(p *Package) { p.Version = `1\..\x` }},
		{name: "version starting with a dot", mutate: func(p *Package) { p.Version = "..1" }},
		{name: "malformed email", mutate: func(p *Package) { p.Email = "jane" }},
		{name: "blank requirement", mutate: func(p *Package) { p.PipRequires = []string{""} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pkg := validPackage()
			tt.mutate(&pkg)
			err := pkg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPackage))
			assert.Contains(t, err.Error(), ManifestFileName)
		})
	}
}

func TestPackageMetadataRoundTrip(t *testing.T) {
	t.Parallel()

	pkg := validPackage()
	pkg.Extra = map[string]any{"credits": "Bob"}

	back, err := FromMetadata(pkg.Metadata())
	require.NoError(t, err)
	assert.Equal(t, pkg, back)
}

func TestArchiveName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "weather-1.2.3.bao.zip", validPackage().ArchiveName())
}
