// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/baopkg/bao/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Status is the code to exit with. An ExitError always means failure, so a
// zero or out-of-range Code becomes ExitFailure.
func (e *ExitError) Status() types.ExitCode {
	if e.Code.IsSuccess() || e.Code.Validate() != nil {
		return types.ExitFailure
	}
	return e.Code
}
