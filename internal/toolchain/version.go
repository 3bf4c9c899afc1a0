package toolchain

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion extracts a semantic version from tool output such as
// "v18.17.0" or "git version 2.39.2". The first whitespace-separated token
// that parses as a version wins.
func ParseVersion(output string) (*semver.Version, error) {
	for _, field := range strings.Fields(output) {
		v, err := parseSemver(field)
		if err == nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("no version found in %q", strings.TrimSpace(output))
}

// Satisfies reports whether version meets the constraint (e.g. ">= 14.0.0").
func Satisfies(version *semver.Version, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	return c.Check(version), nil
}

// ValidateConstraint reports whether constraint is a well-formed semver
// constraint.
func ValidateConstraint(constraint string) error {
	if _, err := semver.NewConstraint(constraint); err != nil {
		return fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
