// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/baopkg/bao/pkg/fspath"
	"github.com/baopkg/bao/pkg/types"
)

// dunderAttrRegex matches `__attr__ = "value"` and `__attr__ = 'value'`.
// The value is the shortest run up to the next quote of either kind.
var dunderAttrRegex = regexp.MustCompile(`__([a-z]+)__ *= *['"](.*?)['"]`)

// Autogen generates the metadata of a standalone Python script: the script's
// stem under "name", its module docstring under "docstring" (nil when it has
// none) and one entry per dunder constant found by ScanDunderAttrs.
//
// A script that does not exist reads as empty source. Source that does not
// parse as Python fails with an *InvalidSyntaxError.
func Autogen(modulePath types.FilesystemPath) (Metadata, error) {
	if err := modulePath.Validate(); err != nil {
		return nil, err
	}

	expanded, err := fspath.ExpandHome(modulePath)
	if err != nil {
		return nil, err
	}
	absPath, err := fspath.Abs(expanded)
	if err != nil {
		return nil, err
	}

	md := Metadata{KeyName: fspath.Stem(absPath)}

	data, err := os.ReadFile(string(absPath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read module %s: %w", absPath, err)
	}

	doc, ok, err := ParseDocstring(data)
	if err != nil {
		var syntaxErr *InvalidSyntaxError
		if errors.As(err, &syntaxErr) {
			syntaxErr.Path = string(absPath)
		}
		return nil, err
	}
	if ok {
		md[KeyDocstring] = doc
	} else {
		md[KeyDocstring] = nil
	}

	for attr, value := range ScanDunderAttrs(string(data)) {
		md[attr] = value
	}

	return md, nil
}

// ScanDunderAttrs returns the dunder constants declared in src. Only lines
// beginning with "__" are considered; on each, the first match of
// `__attr__ = 'value'` wins. Lines that do not match are skipped. When an
// attribute is declared twice, the later line wins.
func ScanDunderAttrs(src string) map[string]string {
	attrs := make(map[string]string)
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, "__") {
			continue
		}
		m := dunderAttrRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		attrs[m[1]] = m[2]
	}
	return attrs
}
