package vcs

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/reactkit-labs/reactkit/internal/toolchain"
)

//go:embed commit.tmpl
var commitTemplate string

var commitTmpl = template.Must(template.New("commit").Option("missingkey=error").Parse(commitTemplate))

// CommitMessage renders the initial commit message.
func CommitMessage(name, templateName string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Name, Template string }{name, templateName}
	if err := commitTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering commit message: %w", err)
	}
	return buf.String(), nil
}

// Git runs git commands through a toolchain runner.
type Git struct {
	Runner toolchain.Runner
}

// IsRepo reports whether dir already contains a .git directory.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// RemoveRepo deletes dir/.git and with it all history.
func RemoveRepo(dir string) error {
	if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return fmt.Errorf("removing repository in %s: %w", dir, err)
	}
	return nil
}

// Init runs git init in dir.
func (g *Git) Init(ctx context.Context, dir string) error {
	_, err := toolchain.RunChecked(ctx, g.Runner, toolchain.Command{Name: "git", Args: []string{"init"}, Dir: dir})
	return err
}

// AddAll stages every file in dir.
func (g *Git) AddAll(ctx context.Context, dir string) error {
	_, err := toolchain.RunChecked(ctx, g.Runner, toolchain.Command{Name: "git", Args: []string{"add", "."}, Dir: dir})
	return err
}

// Commit records a commit with message.
func (g *Git) Commit(ctx context.Context, dir, message string) error {
	_, err := toolchain.RunChecked(ctx, g.Runner, toolchain.Command{Name: "git", Args: []string{"commit", "-m", message}, Dir: dir})
	return err
}
