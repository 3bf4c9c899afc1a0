package toolchain

import (
	"context"
	"fmt"
)

// NPM drives the npm CLI inside a project directory.
type NPM struct {
	Runner Runner
}

// InstallDev adds packages as dev dependencies.
func (n *NPM) InstallDev(ctx context.Context, dir string, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := append([]string{"install", "--save-dev", "--no-audit", "--no-fund"}, pkgs...)
	_, err := RunChecked(ctx, n.Runner, Command{Name: "npm", Args: args, Dir: dir})
	return err
}

// SetScripts merges scripts into the manifest's "scripts" section with
// `npm pkg set`. Existing keys are overwritten, others are left alone.
// names fixes the order in which keys are written.
func (n *NPM) SetScripts(ctx context.Context, dir string, names []string, scripts map[string]string) error {
	if len(names) == 0 {
		return nil
	}
	args := []string{"pkg", "set"}
	for _, name := range names {
		cmd, ok := scripts[name]
		if !ok {
			return fmt.Errorf("script %q has no command", name)
		}
		args = append(args, "scripts."+name+"="+cmd)
	}
	_, err := RunChecked(ctx, n.Runner, Command{Name: "npm", Args: args, Dir: dir})
	return err
}

// RunScript runs `npm run <script>` (or `npm test` for "test") with extra
// environment variables.
func (n *NPM) RunScript(ctx context.Context, dir, script string, env ...string) (*Output, error) {
	args := []string{"run", script}
	if script == "test" {
		args = []string{"test"}
	}
	return RunChecked(ctx, n.Runner, Command{Name: "npm", Args: args, Dir: dir, Env: env})
}
