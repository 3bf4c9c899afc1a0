package pipeline

// State is a position in the pipeline state machine.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateScaffolding
	StateInstallingTests
	StateInstallingQuality
	StateGeneratingDocs
	StateInitializingRepo
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateValidating:        "validating",
	StateScaffolding:       "scaffolding",
	StateInstallingTests:   "installing_tests",
	StateInstallingQuality: "installing_quality",
	StateGeneratingDocs:    "generating_docs",
	StateInitializingRepo:  "initializing_repo",
	StateDone:              "done",
	StateFailed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// StageName identifies a pipeline stage in reports and logs.
type StageName string

// Canonical stage names.
const (
	StageValidate   StageName = "validate"
	StageScaffold   StageName = "scaffold"
	StageTesting    StageName = "testing"
	StageQuality    StageName = "quality"
	StageDocs       StageName = "docs"
	StageRepository StageName = "repository"
)
