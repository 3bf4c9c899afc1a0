package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Outcome statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Outcome is the terminal result of a run.
type Outcome struct {
	Status   string    `json:"status"`
	Stage    StageName `json:"stage,omitempty"`
	Category Category  `json:"category,omitempty"`
	Kind     string    `json:"kind,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	// ExitCode is the child process status when the failure came from one.
	ExitCode int `json:"exit_code,omitempty"`
	// Err is the failure cause; nil on success.
	Err error `json:"-"`
}

// Report summarizes one pipeline run.
type Report struct {
	RunID    string `json:"run_id"`
	Project  string `json:"project,omitempty"`
	Template string `json:"template,omitempty"`
	Dir      string `json:"dir,omitempty"`
	// StagesRun lists completed stages in order. A failed stage is named by
	// Outcome.Stage, not listed here.
	StagesRun      []StageName   `json:"stages_run"`
	FinalState     string        `json:"final_state"`
	Elapsed        time.Duration `json:"-"`
	ElapsedSeconds int           `json:"elapsed_seconds"`
	Outcome        Outcome       `json:"outcome"`
	Warnings       []string      `json:"warnings,omitempty"`
	NextSteps      []string      `json:"next_steps,omitempty"`
	CleanedUp      bool          `json:"cleaned_up,omitempty"`
}

// Succeeded reports whether every stage completed.
func (r *Report) Succeeded() bool {
	return r.Outcome.Status == StatusSuccess
}

// Err returns the failure cause, or nil on success.
func (r *Report) Err() error {
	if r.Succeeded() {
		return nil
	}
	if r.Outcome.Err != nil {
		return fmt.Errorf("stage %s: %w", r.Outcome.Stage, r.Outcome.Err)
	}
	return fmt.Errorf("stage %s failed: %s", r.Outcome.Stage, r.Outcome.Reason)
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// WriteSummary writes the human-readable summary shown at the end of a run.
func (r *Report) WriteSummary(w io.Writer) {
	if !r.Succeeded() {
		fmt.Fprintf(w, "Failed at stage %q (%s): %s\n", r.Outcome.Stage, r.Outcome.Kind, r.Outcome.Reason)
		if r.Outcome.ExitCode != 0 {
			fmt.Fprintf(w, "  Exit status: %d\n", r.Outcome.ExitCode)
		}
		if r.CleanedUp {
			fmt.Fprintf(w, "Removed partial project at %s\n", r.Dir)
		} else if r.Dir != "" && r.Outcome.Stage != StageValidate {
			fmt.Fprintf(w, "Partial project left at %s; remove it before retrying.\n", r.Dir)
		}
		return
	}

	fmt.Fprintf(w, "Created %s at %s/\n", r.Project, r.Dir)
	fmt.Fprintf(w, "  Template: %s\n", r.Template)
	fmt.Fprintf(w, "  Stages:   %s\n", joinStages(r.StagesRun))
	fmt.Fprintf(w, "  Duration: %ds\n", r.ElapsedSeconds)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  - %s\n", warn)
		}
	}

	if len(r.NextSteps) > 0 {
		fmt.Fprintln(w, "\nNext steps:")
		for i, step := range r.NextSteps {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
}

func joinStages(stages []StageName) string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}
	return strings.Join(names, " → ")
}
