package project_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/reactkit-labs/reactkit/internal/toolchain"
	"github.com/reactkit-labs/reactkit/internal/toolchain/toolchaintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T, r *toolchaintest.Runner) *project.Validator {
	t.Helper()
	r.On("node --version", toolchaintest.Stdout("v18.17.0"))
	return &project.Validator{
		Tools:        &toolchain.Checker{Runner: r, LookPath: r.LookPath},
		Requirements: toolchain.DefaultRequirements(">= 14.0.0"),
		ParentDir:    t.TempDir(),
	}
}

func TestValidate_Success(t *testing.T) {
	v := newValidator(t, &toolchaintest.Runner{})

	req, err := v.Validate(context.Background(), "demo-app", "react-typescript")
	require.NoError(t, err)

	assert.Equal(t, "demo-app", req.Name)
	assert.Equal(t, "react-typescript", req.Template.Name)
	assert.Equal(t, filepath.Join(req.ParentDir, "demo-app"), req.Dir)
	assert.True(t, filepath.IsAbs(req.Dir))
	assert.NoDirExists(t, req.Dir, "validation must not create the project directory")
}

func TestValidate_DefaultTemplate(t *testing.T) {
	v := newValidator(t, &toolchaintest.Runner{})

	req, err := v.Validate(context.Background(), "demo-app", "")
	require.NoError(t, err)
	assert.Equal(t, "react-typescript", req.Template.Name)

	v.DefaultTemplate = "next"
	req, err = v.Validate(context.Background(), "demo-app", "")
	require.NoError(t, err)
	assert.Equal(t, "next-typescript", req.Template.Name)
}

func TestValidate_InvalidNames(t *testing.T) {
	names := []string{
		"",
		"a",
		"Demo_App",
		"MyApp",
		"-leading",
		"trailing-",
		"1app!",
		"has space",
		"dots.not.allowed",
		strings.Repeat("a", 215),
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			v := newValidator(t, &toolchaintest.Runner{})

			_, err := v.Validate(context.Background(), name, "react-typescript")

			var ine *project.InvalidNameError
			require.True(t, errors.As(err, &ine), "error = %v", err)
			assert.False(t, ine.IsCollision())
			entries, readErr := os.ReadDir(v.ParentDir)
			require.NoError(t, readErr)
			assert.Empty(t, entries, "no directory may be created for an invalid name")
		})
	}
}

func TestValidate_ValidNameShapes(t *testing.T) {
	for _, name := range []string{"ab", "demo-app", "1app", "a-b-c-9", "x--y"} {
		assert.NoError(t, project.CheckName(name), name)
	}
}

func TestValidate_Collision(t *testing.T) {
	v := newValidator(t, &toolchaintest.Runner{})
	existing := filepath.Join(v.ParentDir, "demo-app")
	require.NoError(t, os.MkdirAll(existing, 0o755))
	marker := filepath.Join(existing, "keep.txt")
	require.NoError(t, os.WriteFile(marker, []byte("original"), 0o644))

	_, err := v.Validate(context.Background(), "demo-app", "react-typescript")

	var ine *project.InvalidNameError
	require.True(t, errors.As(err, &ine), "error = %v", err)
	assert.True(t, ine.IsCollision())

	data, readErr := os.ReadFile(marker)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(data))
	entries, _ := os.ReadDir(existing)
	assert.Len(t, entries, 1)
}

func TestValidate_UnsupportedTemplate(t *testing.T) {
	r := &toolchaintest.Runner{}
	v := newValidator(t, r)

	_, err := v.Validate(context.Background(), "demo-app", "angular")

	var ute *project.UnsupportedTemplateError
	require.True(t, errors.As(err, &ute), "error = %v", err)
	for _, cmd := range r.Commands() {
		assert.NotContains(t, cmd, "create-", "no generator may run for an unsupported template")
	}
}

func TestValidate_OrderToolsBeforeName(t *testing.T) {
	r := &toolchaintest.Runner{Paths: map[string]string{"node": "/usr/bin/node"}}
	v := newValidator(t, r)

	_, err := v.Validate(context.Background(), "Bad_Name", "nope")

	var missing *toolchain.MissingToolError
	assert.True(t, errors.As(err, &missing), "tool checks run first, got %v", err)
}

func TestValidate_OrderCollisionBeforeTemplate(t *testing.T) {
	v := newValidator(t, &toolchaintest.Runner{})
	require.NoError(t, os.Mkdir(filepath.Join(v.ParentDir, "demo-app"), 0o755))

	_, err := v.Validate(context.Background(), "demo-app", "nope")

	var ine *project.InvalidNameError
	require.True(t, errors.As(err, &ine), "error = %v", err)
	assert.True(t, ine.IsCollision())
}

func TestValidate_OldNode(t *testing.T) {
	r := &toolchaintest.Runner{}
	r.On("node --version", toolchaintest.Stdout("v12.0.0"))
	v := &project.Validator{
		Tools:        &toolchain.Checker{Runner: r, LookPath: r.LookPath},
		Requirements: toolchain.DefaultRequirements(">= 14.0.0"),
		ParentDir:    t.TempDir(),
	}

	_, err := v.Validate(context.Background(), "demo-app", "")

	var uve *toolchain.UnsupportedVersionError
	assert.True(t, errors.As(err, &uve), "error = %v", err)
}
