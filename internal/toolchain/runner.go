package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Command describes one child process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Stages always set it explicitly.
	Dir string
	// Env holds KEY=VALUE pairs layered over the current environment.
	Env []string
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Output captures the result of a child process.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes external commands.
type Runner interface {
	// Run executes cmd and blocks until it exits. A non-zero exit code is
	// reported through Output.ExitCode with a nil error; the error return is
	// reserved for failures to start or wait on the process.
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExitError reports a command that exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	if s := lastLine(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// RunChecked runs cmd and converts a non-zero exit into an *ExitError.
func RunChecked(ctx context.Context, r Runner, cmd Command) (*Output, error) {
	out, err := r.Run(ctx, cmd)
	if err != nil {
		return out, err
	}
	if out.ExitCode != 0 {
		return out, &ExitError{Command: cmd.String(), Code: out.ExitCode, Stderr: out.Stderr}
	}
	return out, nil
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive a live copy of the child's output.
	// Nil writers discard it; the output is still captured.
	Stdout io.Writer
	Stderr io.Writer
	// Timeout bounds each command. Zero means no timeout.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	bin, err := exec.LookPath(c.Name)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", c.Name, err)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, c.Args...)
	cmd.Dir = c.Dir
	env := os.Environ()
	for _, kv := range c.Env {
		k, v, _ := strings.Cut(kv, "=")
		env = setEnv(env, k, v)
	}
	cmd.Env = env

	stdout := r.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	r.Logger.Debug().Str("cmd", c.String()).Str("dir", c.Dir).Msg("running command")
	start := time.Now()
	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			output.ExitCode = exitErr.ExitCode()
			r.Logger.Debug().Str("cmd", c.String()).Int("exit_code", output.ExitCode).
				Dur("took", time.Since(start)).Msg("command failed")
			return output, nil
		}
		if ctx.Err() != nil {
			return output, fmt.Errorf("running %s: %w", c.String(), ctx.Err())
		}
		return output, fmt.Errorf("running %s: %w", c.String(), err)
	}

	r.Logger.Debug().Str("cmd", c.String()).Dur("took", time.Since(start)).Msg("command finished")
	return output, nil
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
