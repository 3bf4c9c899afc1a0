//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reactkit-labs/reactkit/internal/logging"
	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/reactkit-labs/reactkit/internal/toolchain"
)

// testEnv holds the isolated directories and the real toolchain runner.
type testEnv struct {
	HomeDir   string // REACTKIT_HOME
	ParentDir string // where projects are generated
	Runner    *toolchain.ExecRunner
	Logger    zerolog.Logger
}

// setupTestEnv skips unless node, npm, npx and git are installed, then
// sandboxes config and git identity for the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	for _, tool := range []string{"node", "npm", "npx", "git"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not on PATH", tool)
		}
	}

	env := &testEnv{
		HomeDir:   t.TempDir(),
		ParentDir: t.TempDir(),
		Logger:    logging.New(os.Stderr, "debug", logging.FormatConsole),
	}
	env.Runner = &toolchain.ExecRunner{Logger: env.Logger}

	t.Setenv("REACTKIT_HOME", env.HomeDir)
	t.Setenv("GIT_AUTHOR_NAME", "reactkit test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "reactkit test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")

	return env
}

func (e *testEnv) validator() *project.Validator {
	return &project.Validator{
		Tools:        toolchain.NewChecker(e.Runner),
		Requirements: toolchain.DefaultRequirements(">= 14.0.0"),
		ParentDir:    e.ParentDir,
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
