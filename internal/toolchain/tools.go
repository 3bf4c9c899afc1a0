package toolchain

import (
	"context"
	"fmt"
	"os/exec"
)

// Requirement declares an executable the pipeline needs.
type Requirement struct {
	Name string
	// VersionArgs queries the version, e.g. ["--version"]. Check only
	// runs it when Constraint is set; Inspect runs it whenever present.
	VersionArgs []string
	// Constraint is a semver range such as ">= 14.0.0". Empty means any
	// version is accepted.
	Constraint string
}

// DefaultRequirements returns the tools the scaffolding pipeline shells out
// to. nodeConstraint applies to the node runtime only.
func DefaultRequirements(nodeConstraint string) []Requirement {
	return []Requirement{
		{Name: "node", VersionArgs: []string{"--version"}, Constraint: nodeConstraint},
		{Name: "npm", VersionArgs: []string{"--version"}},
		{Name: "npx", VersionArgs: []string{"--version"}},
		{Name: "git", VersionArgs: []string{"--version"}},
	}
}

// MissingToolError reports a required executable that is not on PATH.
type MissingToolError struct {
	Tool string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("required tool %q not found on PATH", e.Tool)
}

// UnsupportedVersionError reports a tool whose version fails its constraint
// or could not be determined. Err holds the cause in the latter case.
type UnsupportedVersionError struct {
	Tool     string
	Found    string
	Required string
	Err      error
}

func (e *UnsupportedVersionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s version could not be checked against %q: %v", e.Tool, e.Required, e.Err)
	}
	return fmt.Sprintf("%s version %s does not satisfy %s", e.Tool, e.Found, e.Required)
}

func (e *UnsupportedVersionError) Unwrap() error { return e.Err }

// LookPathFunc resolves an executable name to a path.
type LookPathFunc func(name string) (string, error)

// Checker verifies tool requirements.
type Checker struct {
	Runner   Runner
	LookPath LookPathFunc
}

// NewChecker returns a Checker that resolves tools with exec.LookPath.
func NewChecker(r Runner) *Checker {
	return &Checker{Runner: r, LookPath: exec.LookPath}
}

// ToolStatus is the outcome of checking a single requirement.
type ToolStatus struct {
	Requirement
	Path    string
	Version string
	Err     error
}

// Check verifies that every requirement is on PATH, then that every
// versioned requirement satisfies its constraint. The first failure is
// returned as *MissingToolError or *UnsupportedVersionError.
func (c *Checker) Check(ctx context.Context, reqs []Requirement) error {
	for _, req := range reqs {
		if _, err := c.lookPath(req.Name); err != nil {
			return &MissingToolError{Tool: req.Name}
		}
	}
	for _, req := range reqs {
		if req.Constraint == "" {
			continue
		}
		if _, err := c.checkVersion(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// Inspect checks each requirement independently and reports every result.
// Used by the doctor command, which wants the full picture rather than the
// first failure.
func (c *Checker) Inspect(ctx context.Context, reqs []Requirement) []ToolStatus {
	statuses := make([]ToolStatus, 0, len(reqs))
	for _, req := range reqs {
		st := ToolStatus{Requirement: req}
		path, err := c.lookPath(req.Name)
		if err != nil {
			st.Err = &MissingToolError{Tool: req.Name}
			statuses = append(statuses, st)
			continue
		}
		st.Path = path
		if len(req.VersionArgs) > 0 {
			st.Version, st.Err = c.checkVersion(ctx, req)
		}
		statuses = append(statuses, st)
	}
	return statuses
}

func (c *Checker) lookPath(name string) (string, error) {
	if c.LookPath == nil {
		return exec.LookPath(name)
	}
	return c.LookPath(name)
}

// checkVersion queries the tool's version and applies the constraint, if any.
func (c *Checker) checkVersion(ctx context.Context, req Requirement) (string, error) {
	out, err := RunChecked(ctx, c.Runner, Command{Name: req.Name, Args: req.VersionArgs})
	if err != nil {
		return "", &UnsupportedVersionError{Tool: req.Name, Found: "unknown", Required: req.Constraint,
			Err: fmt.Errorf("querying %s version: %w", req.Name, err)}
	}
	v, err := ParseVersion(out.Stdout)
	if err != nil {
		return "", &UnsupportedVersionError{Tool: req.Name, Found: "unknown", Required: req.Constraint, Err: err}
	}
	if req.Constraint == "" {
		return v.String(), nil
	}
	ok, err := Satisfies(v, req.Constraint)
	if err != nil {
		return v.String(), &UnsupportedVersionError{Tool: req.Name, Found: v.String(), Required: req.Constraint, Err: err}
	}
	if !ok {
		return v.String(), &UnsupportedVersionError{Tool: req.Name, Found: v.String(), Required: req.Constraint}
	}
	return v.String(), nil
}
