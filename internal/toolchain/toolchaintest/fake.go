// Package toolchaintest provides a scripted toolchain.Runner for tests.
package toolchaintest

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/reactkit-labs/reactkit/internal/toolchain"
)

// HandlerFunc simulates one command. It may touch the filesystem to mimic
// the real tool's side effects.
type HandlerFunc func(cmd toolchain.Command) (*toolchain.Output, error)

type handler struct {
	prefix string
	fn     HandlerFunc
}

// Runner records every command and dispatches it to the handler registered
// for the longest matching command-line prefix; among equal prefixes the
// latest registration wins. Unmatched commands succeed with empty output.
type Runner struct {
	Calls    []toolchain.Command
	handlers []handler
	// Paths maps tool names to resolved paths for LookPath. A nil map
	// resolves every tool.
	Paths map[string]string
}

// On registers fn for commands whose rendered command line starts with prefix.
func (r *Runner) On(prefix string, fn HandlerFunc) {
	r.handlers = append(r.handlers, handler{prefix: prefix, fn: fn})
}

// Run implements toolchain.Runner.
func (r *Runner) Run(ctx context.Context, cmd toolchain.Command) (*toolchain.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.Calls = append(r.Calls, cmd)

	line := cmd.String()
	var best *handler
	for i := range r.handlers {
		h := &r.handlers[i]
		if strings.HasPrefix(line, h.prefix) && (best == nil || len(h.prefix) >= len(best.prefix)) {
			best = h
		}
	}
	if best == nil {
		return &toolchain.Output{}, nil
	}
	return best.fn(cmd)
}

// LookPath resolves names against Paths.
func (r *Runner) LookPath(name string) (string, error) {
	if r.Paths == nil {
		return "/usr/bin/" + name, nil
	}
	if p, ok := r.Paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
}

// Commands returns the rendered command lines in call order.
func (r *Runner) Commands() []string {
	lines := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		lines[i] = c.String()
	}
	return lines
}

// Stdout returns a handler that succeeds with the given output.
func Stdout(s string) HandlerFunc {
	return func(toolchain.Command) (*toolchain.Output, error) {
		return &toolchain.Output{Stdout: s}, nil
	}
}

// Exit returns a handler that exits with code and stderr.
func Exit(code int, stderr string) HandlerFunc {
	return func(toolchain.Command) (*toolchain.Output, error) {
		return &toolchain.Output{ExitCode: code, Stderr: stderr}, nil
	}
}
