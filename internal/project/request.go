package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/reactkit-labs/reactkit/internal/toolchain"
)

// NamePattern is the shape every project name must match. Single-character
// names are rejected because the first and last characters are distinct
// positions.
var NamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)

// maxNameLength is the npm package name limit.
const maxNameLength = 214

// Reasons carried by InvalidNameError.
const (
	ReasonEmpty     = "name is empty"
	ReasonPattern   = "name must match " + `^[a-z0-9][a-z0-9-]*[a-z0-9]$`
	ReasonTooLong   = "name is longer than 214 characters"
	ReasonCollision = "target directory already exists"
)

// InvalidNameError reports a project name that cannot be used.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid project name %q: %s", e.Name, e.Reason)
}

// IsCollision reports whether the name was rejected because its directory
// already exists.
func (e *InvalidNameError) IsCollision() bool {
	return e.Reason == ReasonCollision
}

// UnsupportedTemplateError reports a template outside the allow-list.
type UnsupportedTemplateError struct {
	Value   string
	Allowed []string
}

func (e *UnsupportedTemplateError) Error() string {
	return fmt.Sprintf("unsupported template %q (allowed: %s)", e.Value, strings.Join(e.Allowed, ", "))
}

// Request is a validated scaffolding request. Fields are set once by
// Validate and never modified afterwards.
type Request struct {
	Name     string
	Template Template
	// ParentDir is the absolute directory the project is created in.
	ParentDir string
	// Dir is ParentDir joined with Name.
	Dir string
}

// Validator turns raw input into a Request.
type Validator struct {
	Tools        *toolchain.Checker
	Requirements []toolchain.Requirement
	Catalog      *Catalog
	// ParentDir is where the project directory will be created.
	ParentDir string
	// DefaultTemplate overrides the catalog default when the caller passes
	// no template.
	DefaultTemplate string
}

// Validate checks, in order: tool existence, tool versions, name shape,
// name collision, template membership. It never writes to the filesystem.
func (v *Validator) Validate(ctx context.Context, rawName, rawTemplate string) (*Request, error) {
	if v.Tools != nil {
		if err := v.Tools.Check(ctx, v.Requirements); err != nil {
			return nil, err
		}
	}

	if err := CheckName(rawName); err != nil {
		return nil, err
	}

	parent, err := filepath.Abs(v.ParentDir)
	if err != nil {
		return nil, fmt.Errorf("resolving parent directory: %w", err)
	}
	dir := filepath.Join(parent, rawName)
	if _, err := os.Lstat(dir); err == nil {
		return nil, &InvalidNameError{Name: rawName, Reason: ReasonCollision}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", dir, err)
	}

	catalog := v.Catalog
	if catalog == nil {
		if catalog, err = Builtin(); err != nil {
			return nil, err
		}
	}
	tmpl, err := catalog.Resolve(rawTemplate, v.DefaultTemplate)
	if err != nil {
		return nil, err
	}

	return &Request{
		Name:      rawName,
		Template:  tmpl,
		ParentDir: parent,
		Dir:       dir,
	}, nil
}

// CheckName validates the shape of a project name without touching the
// filesystem.
func CheckName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: ReasonEmpty}
	case len(name) > maxNameLength:
		return &InvalidNameError{Name: name, Reason: ReasonTooLong}
	case !NamePattern.MatchString(name):
		return &InvalidNameError{Name: name, Reason: ReasonPattern}
	}
	return nil
}
