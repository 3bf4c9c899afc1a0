package toolchaintest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reactkit-labs/reactkit/internal/toolchain"
)

// Toolchain registers handlers that mimic node, npx, npm and git well
// enough for a full scaffolding run: the generator creates a project
// directory with a package.json, `npm pkg set` edits its scripts and
// `git init` creates .git.
func Toolchain(r *Runner, nodeVersion string) {
	r.On("node --version", Stdout(nodeVersion+"\n"))
	r.On("npm --version", Stdout("9.8.1\n"))
	r.On("npx --version", Stdout("9.8.1\n"))
	r.On("git --version", Stdout("git version 2.43.0\n"))
	r.On("npx --yes create-", GenerateProject)
	r.On("npm pkg set", SetScripts)
	r.On("git init", GitInit)
}

// GenerateProject creates <Dir>/<name>/package.json, where name is the
// first generator argument after the create-* package.
func GenerateProject(cmd toolchain.Command) (*toolchain.Output, error) {
	name := ""
	for i, a := range cmd.Args {
		if strings.HasPrefix(a, "create-") && i+1 < len(cmd.Args) {
			name = cmd.Args[i+1]
			break
		}
	}
	if name == "" {
		return &toolchain.Output{ExitCode: 1, Stderr: "missing project name"}, nil
	}

	dir := filepath.Join(cmd.Dir, name)
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		return nil, err
	}
	pkg := map[string]any{
		"name":    name,
		"version": "0.1.0",
		"private": true,
		"scripts": map[string]string{
			"start": "react-scripts start",
			"build": "react-scripts build",
			"test":  "react-scripts test",
		},
	}
	if err := writeJSON(filepath.Join(dir, "package.json"), pkg); err != nil {
		return nil, err
	}
	return &toolchain.Output{Stdout: "Success! Created " + name + "\n"}, nil
}

// SetScripts applies `npm pkg set scripts.<k>=<v>` arguments to the
// package.json in cmd.Dir.
func SetScripts(cmd toolchain.Command) (*toolchain.Output, error) {
	path := filepath.Join(cmd.Dir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return &toolchain.Output{ExitCode: 1, Stderr: "npm ERR! code ENOENT"}, nil
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return &toolchain.Output{ExitCode: 1, Stderr: "npm ERR! code EJSONPARSE"}, nil
	}
	scripts, _ := pkg["scripts"].(map[string]any)
	if scripts == nil {
		scripts = map[string]any{}
	}
	for _, arg := range cmd.Args[2:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || !strings.HasPrefix(key, "scripts.") {
			return &toolchain.Output{ExitCode: 1, Stderr: fmt.Sprintf("npm ERR! invalid argument %q", arg)}, nil
		}
		scripts[strings.TrimPrefix(key, "scripts.")] = value
	}
	pkg["scripts"] = scripts
	if err := writeJSON(path, pkg); err != nil {
		return nil, err
	}
	return &toolchain.Output{}, nil
}

// GitInit creates an empty .git directory in cmd.Dir.
func GitInit(cmd toolchain.Command) (*toolchain.Output, error) {
	if err := os.MkdirAll(filepath.Join(cmd.Dir, ".git"), 0o755); err != nil {
		return nil, err
	}
	return &toolchain.Output{Stdout: "Initialized empty Git repository\n"}, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
