package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/reactkit-labs/reactkit/internal/scaffold"
	"github.com/reactkit-labs/reactkit/internal/toolchain"
	"github.com/reactkit-labs/reactkit/internal/vcs"
)

// Validator produces an immutable request from raw user input.
type Validator interface {
	Validate(ctx context.Context, rawName, rawTemplate string) (*project.Request, error)
}

// StageFunc performs one stage against a validated request.
type StageFunc func(ctx context.Context, ex *Execution) error

// Stage is one step of the pipeline.
type Stage struct {
	Name  StageName
	State State
	Run   StageFunc
}

// Execution is the per-run context handed to every stage.
type Execution struct {
	ID      string
	Request *project.Request
	Logger  zerolog.Logger

	state    State
	warnings []string
}

// State returns the current position in the state machine.
func (ex *Execution) State() State { return ex.state }

// Warn records a non-fatal problem for the report.
func (ex *Execution) Warn(msg string) {
	ex.Logger.Warn().Msg(msg)
	ex.warnings = append(ex.warnings, msg)
}

// Pipeline validates a request and runs its stages strictly in order,
// stopping at the first failure.
type Pipeline struct {
	Validator Validator
	Stages    []Stage
	Logger    zerolog.Logger
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
	// CleanupOnFailure removes the project directory when a stage after
	// validation fails.
	CleanupOnFailure bool
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

// New returns a pipeline running the default stages through r.
func New(v Validator, r toolchain.Runner, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		Validator: v,
		Stages: DefaultStages(Deps{
			Generator:  &CommandGenerator{Runner: r},
			Packages:   &toolchain.NPM{Runner: r},
			Repository: &vcs.Git{Runner: r},
		}),
		Logger: logger,
	}
}

// Run executes the pipeline. It always returns a report; the report's
// Err describes any failure.
func (p *Pipeline) Run(ctx context.Context, rawName, rawTemplate string) *Report {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	start := now()

	ex := &Execution{
		ID:     uuid.NewString(),
		Logger: p.Logger.With().Str("project", rawName).Logger(),
		state:  StateIdle,
	}
	ex.Logger = ex.Logger.With().Str("run_id", ex.ID).Logger()

	report := &Report{
		RunID:     ex.ID,
		Project:   rawName,
		StagesRun: []StageName{},
	}
	finish := func() *Report {
		elapsed := now().Sub(start)
		report.Elapsed = elapsed
		report.ElapsedSeconds = int(elapsed / time.Second)
		report.FinalState = ex.state.String()
		report.Warnings = ex.warnings
		return report
	}

	p.transition(ex, StateValidating)
	ex.Logger.Info().Str("stage", string(StageValidate)).Msg("stage started")
	req, err := p.Validator.Validate(ctx, rawName, rawTemplate)
	if err != nil {
		p.fail(ex, report, StageValidate, err)
		return finish()
	}
	ex.Request = req
	report.Template = req.Template.Name
	report.Dir = req.Dir
	report.StagesRun = append(report.StagesRun, StageValidate)
	ex.Logger.Info().Str("stage", string(StageValidate)).
		Str("template", req.Template.Name).
		Str("dir", req.Dir).
		Msg("stage finished")

	for _, stage := range p.Stages {
		if err := ctx.Err(); err != nil {
			p.fail(ex, report, stage.Name, fmt.Errorf("interrupted: %w", err))
			p.cleanup(ex, report)
			return finish()
		}

		p.transition(ex, stage.State)
		stageStart := now()
		ex.Logger.Info().Str("stage", string(stage.Name)).Msg("stage started")

		if err := stage.Run(ctx, ex); err != nil {
			p.fail(ex, report, stage.Name, err)
			p.cleanup(ex, report)
			return finish()
		}

		report.StagesRun = append(report.StagesRun, stage.Name)
		ex.Logger.Info().Str("stage", string(stage.Name)).
			Dur("elapsed", now().Sub(stageStart)).
			Msg("stage finished")
	}

	p.transition(ex, StateDone)
	report.Outcome = Outcome{Status: StatusSuccess}
	report.NextSteps = NextSteps(req)
	r := finish()
	ex.Logger.Info().Int("elapsed_seconds", r.ElapsedSeconds).Msg("project created")
	return r
}

func (p *Pipeline) transition(ex *Execution, to State) {
	from := ex.state
	ex.state = to
	ex.Logger.Debug().Stringer("from", from).Stringer("to", to).Msg("state transition")
	if p.OnTransition != nil {
		p.OnTransition(from, to)
	}
}

func (p *Pipeline) fail(ex *Execution, report *Report, stage StageName, err error) {
	p.transition(ex, StateFailed)
	report.Outcome = Outcome{
		Status:   StatusFailed,
		Stage:    stage,
		Category: Classify(stage, err),
		Kind:     Kind(err),
		Reason:   err.Error(),
		Err:      err,
	}
	if code := ExitCode(err); code > 0 {
		report.Outcome.ExitCode = code
	}
	ex.Logger.Error().Err(err).
		Str("stage", string(stage)).
		Str("category", string(report.Outcome.Category)).
		Str("kind", report.Outcome.Kind).
		Msg("stage failed")
}

// cleanup removes the partial project when enabled. Only reached after
// validation, so the directory was created by this run.
func (p *Pipeline) cleanup(ex *Execution, report *Report) {
	if !p.CleanupOnFailure || ex.Request == nil {
		return
	}
	dir := ex.Request.Dir
	if _, err := os.Lstat(dir); err != nil {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		ex.Warn(fmt.Sprintf("could not remove %s: %v", dir, err))
		return
	}
	report.CleanedUp = true
	ex.Logger.Info().Str("dir", dir).Msg("removed partial project")
}

// NextSteps returns the hints printed after a successful run.
func NextSteps(req *project.Request) []string {
	return []string{
		"cd " + req.Name,
		scaffold.NewData(req.Name, req.Template.Name).StartCommand,
		"npm test",
		"npm run test:coverage",
		"npm run lint",
		"npm run format",
	}
}
