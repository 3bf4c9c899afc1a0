package vcs

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed gitignore.block
var ignoreBlock string

// IgnoreBlock returns the fixed block of ignore patterns.
func IgnoreBlock() string {
	return ignoreBlock
}

// AppendIgnoreBlock appends the ignore block to repoRoot/.gitignore,
// creating the file if needed. The block is appended on every call without
// checking for patterns already present, so repeated calls duplicate it.
func AppendIgnoreBlock(repoRoot string) error {
	gitignorePath := filepath.Join(repoRoot, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading .gitignore: %w", err)
	}

	// Ensure there's a newline before our addition.
	suffix := ignoreBlock
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening .gitignore for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return fmt.Errorf("writing to .gitignore: %w", err)
	}

	return nil
}
