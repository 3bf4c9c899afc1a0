package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/reactkit-labs/reactkit/internal/pipeline"
	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/reactkit-labs/reactkit/internal/toolchain"
)

// ErrCheckFailed is returned when a verification script exits non-zero.
var ErrCheckFailed = errors.New("health check failed")

// NamePrefix starts every throwaway project name.
const NamePrefix = "health-check-"

// Script is one verification step run inside the generated project.
type Script struct {
	Name string
	Env  []string
}

// DefaultScripts are run in order; the first failure stops the check.
var DefaultScripts = []Script{
	{Name: "test", Env: []string{"CI=true"}},
	{Name: "lint"},
	{Name: "build"},
}

// ScriptResult records one verification step.
type ScriptResult struct {
	Script   string        `json:"script"`
	Passed   bool          `json:"passed"`
	ExitCode int           `json:"exit_code"`
	Elapsed  time.Duration `json:"-"`
	Output   string        `json:"-"`
}

// Result is the outcome of a health check.
type Result struct {
	Name    string           `json:"name"`
	Dir     string           `json:"dir"`
	Report  *pipeline.Report `json:"report"`
	Scripts []ScriptResult   `json:"scripts"`
	Removed bool             `json:"removed"`
}

// Passed reports whether the pipeline and every script succeeded.
func (r *Result) Passed() bool {
	if r.Report == nil || !r.Report.Succeeded() {
		return false
	}
	for _, s := range r.Scripts {
		if !s.Passed {
			return false
		}
	}
	return len(r.Scripts) > 0
}

// Checker runs health checks.
type Checker struct {
	Runner toolchain.Runner
	// Validator must have ParentDir set to where the throwaway project
	// goes.
	Validator *project.Validator
	Logger    zerolog.Logger
	// Keep leaves the project on disk after a passing check.
	Keep bool
	// Template is the template to exercise; empty selects the default.
	Template string
	Scripts  []Script
	Now      func() time.Time
}

// ProjectName returns the throwaway project name for t.
func ProjectName(t time.Time) string {
	return fmt.Sprintf("%s%d", NamePrefix, t.Unix())
}

// Run creates the throwaway project and verifies it. The returned Result
// is never nil.
func (c *Checker) Run(ctx context.Context) (*Result, error) {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	scripts := c.Scripts
	if scripts == nil {
		scripts = DefaultScripts
	}

	name := ProjectName(now())
	logger := c.Logger.With().Str("check", name).Logger()
	result := &Result{Name: name}

	p := pipeline.New(c.Validator, c.Runner, logger)
	p.Now = now
	report := p.Run(ctx, name, c.Template)
	result.Report = report
	result.Dir = report.Dir
	if err := report.Err(); err != nil {
		return result, fmt.Errorf("%w: scaffolding: %w", ErrCheckFailed, err)
	}

	npm := &toolchain.NPM{Runner: c.Runner}
	for _, s := range scripts {
		start := now()
		logger.Info().Str("script", s.Name).Msg("running project script")
		out, err := npm.RunScript(ctx, report.Dir, s.Name, s.Env...)

		sr := ScriptResult{Script: s.Name, Passed: err == nil, Elapsed: now().Sub(start)}
		if out != nil {
			sr.ExitCode = out.ExitCode
			sr.Output = out.Stdout + out.Stderr
		}
		result.Scripts = append(result.Scripts, sr)

		if err != nil {
			logger.Error().Err(err).Str("script", s.Name).Str("dir", report.Dir).Msg("project script failed")
			return result, fmt.Errorf("%w: npm %s: %w", ErrCheckFailed, s.Name, err)
		}
	}

	if c.Keep {
		logger.Info().Str("dir", report.Dir).Msg("keeping health check project")
		return result, nil
	}
	if err := os.RemoveAll(report.Dir); err != nil {
		logger.Warn().Err(err).Str("dir", report.Dir).Msg("could not remove health check project")
		return result, nil
	}
	result.Removed = true
	return result, nil
}
