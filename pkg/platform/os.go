// SPDX-License-Identifier: MPL-2.0

package platform

// runtime.GOOS values bao branches on.
const (
	Windows = "windows"
	Darwin  = "darwin"
)
