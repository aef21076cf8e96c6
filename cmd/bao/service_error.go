// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"

	"github.com/baopkg/bao/internal/config"
	"github.com/baopkg/bao/internal/issue"
	"github.com/baopkg/bao/pkg/archive"
	"github.com/baopkg/bao/pkg/build"
	"github.com/baopkg/bao/pkg/metadata"
	"github.com/baopkg/bao/pkg/types"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before the issue help.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints the styled message, then the issue help rendered
// with the given glamour style.
func renderServiceError(w io.Writer, svcErr *ServiceError, style string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		_, _ = fmt.Fprint(w, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(style)
		if renderErr != nil {
			log.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
			return
		}
		_, _ = fmt.Fprint(w, rendered)
	}
}

// classifyError maps a failure to the issue catalog entry that explains it.
// Zero means no entry applies.
func classifyError(err error) issue.Id {
	switch {
	case errors.Is(err, build.ErrInvalidModule):
		return issue.InvalidModuleId
	case errors.Is(err, metadata.ErrMissingField):
		return issue.MissingFieldId
	case errors.Is(err, metadata.ErrInvalidSyntax):
		return issue.InvalidSyntaxId
	case errors.Is(err, metadata.ErrInvalidPackage):
		return issue.InvalidPackageId
	case errors.Is(err, ErrManifestExists):
		return issue.ManifestExistsId
	case errors.Is(err, archive.ErrBundleExists):
		return issue.BundleExistsId
	case errors.Is(err, archive.ErrEmptyBundle), errors.Is(err, archive.ErrUnsafeEntry),
		errors.Is(err, zip.ErrFormat), errors.Is(err, zip.ErrAlgorithm), errors.Is(err, zip.ErrChecksum):
		return issue.InvalidBundleId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, fs.ErrNotExist):
		return issue.FileNotFoundId
	default:
		var ae *issue.ActionableError
		if errors.As(err, &ae) && ae.Operation == "load configuration" {
			return issue.ConfigLoadFailedId
		}
		return 0
	}
}

// exitCodeFor returns ExitInvalidInput for sources bao cannot package and
// ExitFailure for everything else.
func exitCodeFor(err error) types.ExitCode {
	switch {
	case errors.Is(err, build.ErrInvalidModule),
		errors.Is(err, metadata.ErrMissingField),
		errors.Is(err, metadata.ErrInvalidSyntax),
		errors.Is(err, metadata.ErrInvalidPackage):
		return types.ExitInvalidInput
	default:
		return types.ExitFailure
	}
}

// fail wraps err for display: the actionable context names what bao was doing,
// the service error selects the help entry, and the exit error the status.
func (a *App) fail(err error, operation, resource string, suggestions ...string) error {
	ae := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestions...).
		Wrap(err).
		Build()
	styled := fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(ae, a.flags.verbose))
	return &ExitError{
		Code: exitCodeFor(err),
		Err:  newServiceError(ae, classifyError(ae), styled),
	}
}

// handleError is the fang error handler. Service errors get their styled
// message and issue help; anything else (usage errors) goes to fang.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr, a.glamourStyle(a.stderr))
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
