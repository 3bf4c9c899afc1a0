package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/reactkit-labs/reactkit/internal/branding"
	"github.com/reactkit-labs/reactkit/internal/pipeline"
	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/spf13/cobra"
)

var (
	createDir     string
	createJSON    bool
	createCleanup bool
)

func init() {
	createCmd.Flags().StringVar(&createDir, "dir", "", "Parent directory for the project (default: current directory)")
	createCmd.Flags().BoolVar(&createJSON, "json", false, "Print the run report as JSON")
	createCmd.Flags().BoolVar(&createCleanup, "cleanup-on-failure", false, "Remove the partial project if a stage fails")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <name> [template]",
	Short: "Scaffold a new React + TypeScript project",
	Long: `Scaffold a new project, install Jest and React Testing Library, ESLint and
Prettier, write README and CONTRIBUTING, and create the initial commit.

Names must be lowercase letters, digits and hyphens, and must not start or
end with a hyphen. Templates: ` + templateList() + `.

Examples:
  ` + branding.CLIName() + ` create demo-app
  ` + branding.CLIName() + ` create shop redux
  ` + branding.CLIName() + ` create site next-typescript --dir ~/src`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	var tmpl string
	if len(args) > 1 {
		tmpl = args[1]
	}

	parent := createDir
	if parent == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		parent = wd
	}

	runner := newRunner(cmd)
	p := pipeline.New(newValidator(runner, parent), runner, logger)
	p.CleanupOnFailure = createCleanup

	report := p.Run(cmd.Context(), name, tmpl)

	out := cmd.OutOrStdout()
	if createJSON {
		if err := report.WriteJSON(out); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out)
		report.WriteSummary(out)
	}
	return report.Err()
}

func templateList() string {
	catalog, err := project.Builtin()
	if err != nil {
		return "unavailable"
	}
	return strings.Join(catalog.Names(), ", ")
}
