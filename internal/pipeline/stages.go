package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/reactkit-labs/reactkit/internal/manifest"
	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/reactkit-labs/reactkit/internal/scaffold"
	"github.com/reactkit-labs/reactkit/internal/toolchain"
	"github.com/reactkit-labs/reactkit/internal/vcs"
)

// Generator produces the base project tree for a validated request.
type Generator interface {
	Generate(ctx context.Context, req *project.Request) error
}

// PackageManager installs dependencies and edits the project manifest.
type PackageManager interface {
	InstallDev(ctx context.Context, dir string, pkgs []string) error
	SetScripts(ctx context.Context, dir string, names []string, scripts map[string]string) error
}

// Repository is the version-control collaborator.
type Repository interface {
	Init(ctx context.Context, dir string) error
	AddAll(ctx context.Context, dir string) error
	Commit(ctx context.Context, dir, message string) error
}

// CommandGenerator runs the template's generator command from the parent
// directory.
type CommandGenerator struct {
	Runner toolchain.Runner
}

// Generate implements Generator.
func (g *CommandGenerator) Generate(ctx context.Context, req *project.Request) error {
	cmd := req.Template.Generator.Render(req.Name, req.ParentDir)
	_, err := toolchain.RunChecked(ctx, g.Runner, cmd)
	return err
}

// Deps are the collaborators the default stages need.
type Deps struct {
	Generator  Generator
	Packages   PackageManager
	Repository Repository
}

// DefaultStages returns the post-validation stages in execution order.
func DefaultStages(d Deps) []Stage {
	return []Stage{
		{Name: StageScaffold, State: StateScaffolding, Run: scaffoldStage(d.Generator)},
		{Name: StageTesting, State: StateInstallingTests, Run: testingStage(d.Packages)},
		{Name: StageQuality, State: StateInstallingQuality, Run: qualityStage(d.Packages)},
		{Name: StageDocs, State: StateGeneratingDocs, Run: docsStage()},
		{Name: StageRepository, State: StateInitializingRepo, Run: repositoryStage(d.Repository)},
	}
}

func scaffoldStage(gen Generator) StageFunc {
	return func(ctx context.Context, ex *Execution) error {
		req := ex.Request
		if err := gen.Generate(ctx, req); err != nil {
			return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		info, err := os.Stat(req.Dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: generator did not create %s", ErrGenerationFailed, req.Dir)
		}
		return nil
	}
}

func testingStage(pm PackageManager) StageFunc {
	return func(ctx context.Context, ex *Execution) error {
		ts, err := scaffold.LoadToolset(scaffold.SetTesting)
		if err != nil {
			return err
		}
		if err := pm.InstallDev(ctx, ex.Request.Dir, ts.DevDependencies); err != nil {
			return fmt.Errorf("%w: %w", ErrDependencyInstallFailed, err)
		}
		return writeSet(ex, scaffold.SetTesting)
	}
}

func qualityStage(pm PackageManager) StageFunc {
	return func(ctx context.Context, ex *Execution) error {
		dir := ex.Request.Dir
		ts, err := scaffold.LoadToolset(scaffold.SetQuality)
		if err != nil {
			return err
		}
		if err := pm.InstallDev(ctx, dir, ts.DevDependencies); err != nil {
			return fmt.Errorf("%w: %w", ErrDependencyInstallFailed, err)
		}
		if err := writeSet(ex, scaffold.SetQuality); err != nil {
			return err
		}

		names, scripts := qualityScripts(ts, ex.Request.Template.Scripts)
		if err := pm.SetScripts(ctx, dir, names, scripts); err != nil {
			return fmt.Errorf("%w: %w", ErrManifestUpdateFailed, err)
		}

		checkManifest(ex, names)
		return nil
	}
}

// qualityScripts returns the toolset scripts with the template's overrides
// applied. Overrides for names the toolset lacks are appended in sorted order.
func qualityScripts(ts scaffold.Toolset, overrides map[string]string) ([]string, map[string]string) {
	names := ts.ScriptNames()
	scripts := make(map[string]string, len(ts.Scripts)+len(overrides))
	for _, s := range ts.Scripts {
		scripts[s.Name] = s.Command
	}
	var extra []string
	for name, command := range overrides {
		if _, ok := scripts[name]; !ok {
			extra = append(extra, name)
		}
		scripts[name] = command
	}
	sort.Strings(extra)
	return append(names, extra...), scripts
}

// checkManifest validates package.json after the scripts are merged.
// Problems are recorded as warnings; the project is still usable.
func checkManifest(ex *Execution, want []string) {
	result, err := manifest.ValidateProject(ex.Request.Dir)
	if err != nil {
		ex.Warn(fmt.Sprintf("could not validate %s: %v", manifest.FileName, err))
		return
	}
	for _, issue := range result.Issues {
		ex.Warn(fmt.Sprintf("%s: %s", manifest.FileName, issue))
	}

	pkg, err := manifest.Read(ex.Request.Dir)
	if err != nil {
		return
	}
	if missing := pkg.MissingScripts(want); len(missing) > 0 {
		ex.Warn(fmt.Sprintf("%s is missing scripts: %s", manifest.FileName, strings.Join(missing, ", ")))
	}
}

func docsStage() StageFunc {
	return func(_ context.Context, ex *Execution) error {
		return writeSet(ex, scaffold.SetDocs)
	}
}

func repositoryStage(repo Repository) StageFunc {
	return func(ctx context.Context, ex *Execution) error {
		req := ex.Request
		// Generators such as create-react-app commit on their own. The
		// directory is new to this run, so their history is dropped to leave
		// exactly one commit.
		if vcs.IsRepo(req.Dir) {
			ex.Logger.Debug().Str("dir", req.Dir).Msg("discarding generator repository")
			if err := vcs.RemoveRepo(req.Dir); err != nil {
				return fmt.Errorf("%w: %w", ErrVcsInitFailed, err)
			}
		}
		if err := repo.Init(ctx, req.Dir); err != nil {
			return fmt.Errorf("%w: %w", ErrVcsInitFailed, err)
		}

		if err := vcs.AppendIgnoreBlock(req.Dir); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
		if err := repo.AddAll(ctx, req.Dir); err != nil {
			return fmt.Errorf("%w: %w", ErrCommitFailed, err)
		}

		msg, err := vcs.CommitMessage(req.Name, req.Template.Name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCommitFailed, err)
		}
		if err := repo.Commit(ctx, req.Dir, msg); err != nil {
			return fmt.Errorf("%w: %w", ErrCommitFailed, err)
		}
		return nil
	}
}

// writeSet writes one embedded file set into the project directory.
func writeSet(ex *Execution, set string) error {
	data := scaffold.NewData(ex.Request.Name, ex.Request.Template.Name)
	result, err := scaffold.Write(set, data, ex.Request.Dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	for _, f := range result.Files {
		ex.Logger.Debug().Str("file", f).Msg("wrote file")
	}
	return nil
}
