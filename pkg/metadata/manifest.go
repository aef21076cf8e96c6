// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/baopkg/bao/pkg/types"
)

const (
	// ManifestFileName is the metadata file written next to a packaged script
	// and at the root of every bundle.
	ManifestFileName = "bao.toml"

	// ArchiveSuffix is the file suffix of bao bundles.
	ArchiveSuffix = ".bao.zip"
)

// ReadManifest loads a bao.toml file as a metadata record. Only the keys
// present in the file are returned, so the result can be merged over
// autogenerated metadata.
func ReadManifest(path types.FilesystemPath) (Metadata, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	md := make(Metadata, len(raw))
	for k, v := range raw {
		if k == "extra" {
			if extra, ok := v.(map[string]any); ok {
				for ek, ev := range extra {
					md[ek] = ev
				}
				continue
			}
		}
		md[k] = v
	}
	if md.Has(KeyPipRequires) {
		md[KeyPipRequires] = md.Strings(KeyPipRequires)
	}
	return md, nil
}

// WriteManifest writes pkg to path as TOML.
func WriteManifest(path types.FilesystemPath, pkg Package) error {
	data, err := toml.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
