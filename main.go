// SPDX-License-Identifier: MPL-2.0

// bao packages Python scripts into zip bundles with a bao.toml manifest.
package main

import cmd "github.com/baopkg/bao/cmd/bao"

func main() {
	cmd.Execute()
}
