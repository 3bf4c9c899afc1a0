package pipeline

import (
	"errors"

	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/reactkit-labs/reactkit/internal/scaffold"
	"github.com/reactkit-labs/reactkit/internal/toolchain"
)

// Stage failures. Stages wrap the underlying cause with one of these so
// callers can match on errors.Is.
var (
	ErrGenerationFailed        = errors.New("project generation failed")
	ErrDependencyInstallFailed = errors.New("dependency install failed")
	ErrManifestUpdateFailed    = errors.New("manifest update failed")
	ErrWriteFailed             = errors.New("write failed")
	ErrVcsInitFailed           = errors.New("repository init failed")
	ErrCommitFailed            = errors.New("commit failed")
)

// Category is the coarse error class reported to the caller.
type Category string

const (
	// CategoryValidation errors happen before any side effect.
	CategoryValidation Category = "validation"
	// CategoryExternalTool errors come from a delegated process; earlier
	// stages' side effects remain on disk.
	CategoryExternalTool Category = "external_tool"
	// CategoryFilesystem errors come from reading or writing project files.
	CategoryFilesystem Category = "filesystem"
)

// Kind returns the specific error kind, e.g. "InvalidName" or
// "GenerationFailed". Unrecognized errors return "Unknown".
func Kind(err error) string {
	var (
		missing     *toolchain.MissingToolError
		unsupported *toolchain.UnsupportedVersionError
		badName     *project.InvalidNameError
		badTemplate *project.UnsupportedTemplateError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &missing):
		return "MissingTool"
	case errors.As(err, &unsupported):
		return "UnsupportedToolVersion"
	case errors.As(err, &badName):
		return "InvalidName"
	case errors.As(err, &badTemplate):
		return "UnsupportedTemplate"
	case errors.Is(err, ErrGenerationFailed):
		return "GenerationFailed"
	case errors.Is(err, ErrDependencyInstallFailed):
		return "DependencyInstallFailed"
	case errors.Is(err, ErrManifestUpdateFailed):
		return "ManifestUpdateFailed"
	case errors.Is(err, ErrWriteFailed):
		return "WriteFailed"
	case errors.Is(err, ErrVcsInitFailed):
		return "VcsInitFailed"
	case errors.Is(err, ErrCommitFailed):
		return "CommitFailed"
	}
	return "Unknown"
}

// Classify maps a stage failure to its category. Anything raised while
// validating is a validation error, even a failed version query.
func Classify(stage StageName, err error) Category {
	var (
		exitErr  *toolchain.ExitError
		writeErr *scaffold.WriteError
	)
	switch {
	case stage == StageValidate:
		return CategoryValidation
	case errors.Is(err, ErrWriteFailed), errors.As(err, &writeErr):
		return CategoryFilesystem
	case errors.As(err, &exitErr),
		errors.Is(err, ErrGenerationFailed),
		errors.Is(err, ErrDependencyInstallFailed),
		errors.Is(err, ErrManifestUpdateFailed),
		errors.Is(err, ErrVcsInitFailed),
		errors.Is(err, ErrCommitFailed):
		return CategoryExternalTool
	}
	return CategoryFilesystem
}

// ExitCode returns the exit status carried by err, or -1 when err did not
// come from a child process.
func ExitCode(err error) int {
	var exitErr *toolchain.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
