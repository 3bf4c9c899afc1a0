package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactkit-labs/reactkit/internal/toolchain"
	"github.com/reactkit-labs/reactkit/internal/toolchain/toolchaintest"
)

// setupCLI points config at a temp home and routes every child process
// through a fake toolchain.
func setupCLI(t *testing.T) *toolchaintest.Runner {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("REACTKIT_HOME", t.TempDir())

	r := &toolchaintest.Runner{}
	toolchaintest.Toolchain(r, "v18.17.0")

	prevRunner, prevLookPath := newRunner, lookPath
	newRunner = func(*cobra.Command) toolchain.Runner { return r }
	lookPath = r.LookPath
	t.Cleanup(func() {
		newRunner, lookPath = prevRunner, prevLookPath
	})

	buildVersion, buildCommit, buildDate = "1.2.3", "abc1234", "2024-05-01"
	return r
}

// resetFlags restores every flag to its default so tests do not leak into
// each other through the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "reactkit version 1.2.3 (commit: abc1234, built: 2024-05-01)\n", out)

	out, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "abc1234", info["commit"])
}

func TestCreate(t *testing.T) {
	r := setupCLI(t)
	parent := t.TempDir()

	out, err := execute(t, "create", "demo-app", "--dir", parent)
	require.NoError(t, err)

	assert.Contains(t, out, "Created demo-app at "+filepath.Join(parent, "demo-app"))
	assert.Contains(t, out, "Next steps:")
	assert.FileExists(t, filepath.Join(parent, "demo-app", "README.md"))
	assert.Contains(t, r.Commands(), "npx --yes create-react-app demo-app --template typescript")
}

func TestCreate_TemplateAlias(t *testing.T) {
	r := setupCLI(t)
	parent := t.TempDir()

	_, err := execute(t, "create", "site", "next", "--dir", parent)
	require.NoError(t, err)

	found := false
	for _, line := range r.Commands() {
		if strings.HasPrefix(line, "npx --yes create-next-app@14 site") {
			found = true
		}
	}
	assert.True(t, found, "commands: %v", r.Commands())
}

func TestCreate_DefaultTemplateFromConfig(t *testing.T) {
	r := setupCLI(t)
	t.Setenv("REACTKIT_DEFAULT_TEMPLATE", "redux")

	_, err := execute(t, "create", "shop", "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, r.Commands(), "npx --yes create-react-app shop --template redux-typescript")
}

func TestCreate_InvalidName(t *testing.T) {
	r := setupCLI(t)
	parent := t.TempDir()

	out, err := execute(t, "create", "Demo_App", "--dir", parent)
	require.Error(t, err)

	assert.Contains(t, out, `Failed at stage "validate" (InvalidName)`)
	assert.NoDirExists(t, filepath.Join(parent, "Demo_App"))
	for _, line := range r.Commands() {
		assert.NotContains(t, line, "create-react-app")
	}
}

func TestCreate_JSON(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "create", "demo-app", "--dir", t.TempDir(), "--json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "demo-app", report["project"])
	assert.Equal(t, "success", report["outcome"].(map[string]any)["status"])
	assert.Len(t, report["stages_run"], 6)
}

func TestCreate_CleanupOnFailure(t *testing.T) {
	r := setupCLI(t)
	r.On("npm install", toolchaintest.Exit(1, "npm ERR! network"))
	parent := t.TempDir()

	out, err := execute(t, "create", "demo-app", "--dir", parent, "--cleanup-on-failure")
	require.Error(t, err)

	assert.Contains(t, out, "Removed partial project")
	assert.NoDirExists(t, filepath.Join(parent, "demo-app"))
}

func TestCreate_WrongArgCount(t *testing.T) {
	setupCLI(t)

	_, err := execute(t, "create")
	assert.Error(t, err)
	_, err = execute(t, "create", "a", "b", "c")
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "react-typescript (default)")
	assert.Contains(t, out, "react-redux-typescript")
	assert.Contains(t, out, "next-typescript")

	out, err = execute(t, "templates", "--json")
	require.NoError(t, err)
	var entries []templateEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "npx --yes create-react-app <name> --template typescript", entries[0].Generator)
}

func TestDoctor(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "[ OK ] node 18.17.0 (>= 14.0.0)")
	assert.Contains(t, out, "[ OK ] default_template = react-typescript")
}

func TestDoctor_MissingTool(t *testing.T) {
	r := setupCLI(t)
	r.Paths = map[string]string{"node": "/usr/bin/node", "npm": "/usr/bin/npm", "npx": "/usr/bin/npx"}

	out, err := execute(t, "doctor")
	require.Error(t, err)
	assert.Contains(t, out, "[MISS] git not found")
	assert.EqualError(t, err, "1 check(s) failed")
}

func TestDoctor_OldNode(t *testing.T) {
	r := setupCLI(t)
	r.On("node --version", toolchaintest.Stdout("v12.22.0"))

	out, err := execute(t, "doctor")
	require.Error(t, err)
	assert.Contains(t, out, "[FAIL] node")
}

func TestDoctor_CheckManifest(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"demo-app","version":"0.1.0"}`), 0o644))

	out, err := execute(t, "doctor", "--check-manifest", dir)
	require.Error(t, err)
	assert.Contains(t, out, "validation issue(s)")
}

func TestConfigSetGet(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "config", "set", "default_template", "next-typescript")
	require.NoError(t, err)
	assert.Equal(t, "Set default_template = next-typescript\n", out)

	out, err = execute(t, "config", "get", "default_template")
	require.NoError(t, err)
	assert.Equal(t, "next-typescript\n", out)

	out, err = execute(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "node_version = >= 14.0.0")
}

func TestHealthcheck(t *testing.T) {
	r := setupCLI(t)
	dir := t.TempDir()

	out, err := execute(t, "healthcheck", "--dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "[ OK ] npm test")
	assert.Contains(t, out, "[ OK ] npm build")
	assert.Contains(t, out, "Removed throwaway project")
	assert.Contains(t, r.Commands(), "npm run build")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHealthcheck_KeepFromConfig(t *testing.T) {
	setupCLI(t)
	t.Setenv("REACTKIT_HEALTHCHECK_KEEP", "true")
	dir := t.TempDir()

	out, err := execute(t, "healthcheck", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Project kept at")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "health-check-"))
}

func TestHealthcheck_Failure(t *testing.T) {
	r := setupCLI(t)
	r.On("npm test", toolchaintest.Exit(1, "Tests: 1 failed"))

	out, err := execute(t, "healthcheck", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "[FAIL] npm test (exit 1)")
	assert.Contains(t, out, "Project kept at")
}
