package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/reactkit-labs/reactkit/internal/config"
	"github.com/reactkit-labs/reactkit/internal/manifest"
	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/reactkit-labs/reactkit/internal/toolchain"
	"github.com/spf13/cobra"
)

var doctorManifest string

func init() {
	doctorCmd.Flags().StringVar(&doctorManifest, "check-manifest", "", "Validate the package.json of the project at the given directory")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the toolchain and configuration are usable",
	Long: `Run diagnostic checks: every required tool is on PATH, node satisfies the
configured version constraint, and the configured default template exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := runToolchainCheck(cmd, out)
		failed += runConfigCheck(out)

		if doctorManifest != "" {
			if err := runManifestCheck(out, doctorManifest); err != nil {
				return err
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func runToolchainCheck(cmd *cobra.Command, out io.Writer) int {
	fmt.Fprintln(out, "Toolchain check:")
	checker := &toolchain.Checker{Runner: newRunner(cmd), LookPath: lookPath}
	statuses := checker.Inspect(cmd.Context(), toolchain.DefaultRequirements(settings.NodeVersion))

	failed := 0
	for _, st := range statuses {
		var missing *toolchain.MissingToolError
		switch {
		case errors.As(st.Err, &missing):
			fmt.Fprintf(out, "  [MISS] %s not found\n", st.Name)
			failed++
		case st.Err != nil:
			fmt.Fprintf(out, "  [FAIL] %s: %v\n", st.Name, st.Err)
			failed++
		case st.Constraint != "":
			fmt.Fprintf(out, "  [ OK ] %s %s (%s) at %s\n", st.Name, st.Version, st.Constraint, st.Path)
		default:
			fmt.Fprintf(out, "  [ OK ] %s %s at %s\n", st.Name, st.Version, st.Path)
		}
	}
	return failed
}

func runConfigCheck(out io.Writer) int {
	fmt.Fprintln(out, "Config check:")
	catalog, err := project.Builtin()
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] template catalog: %v\n", err)
		return 1
	}
	tmpl, err := catalog.Resolve(settings.DefaultTemplate, "")
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %s: %v\n", config.KeyDefaultTemplate, err)
		return 1
	}
	fmt.Fprintf(out, "  [ OK ] %s = %s\n", config.KeyDefaultTemplate, tmpl.Name)

	if err := toolchain.ValidateConstraint(settings.NodeVersion); err != nil {
		fmt.Fprintf(out, "  [FAIL] %s: %v\n", config.KeyNodeVersion, err)
		return 1
	}
	fmt.Fprintf(out, "  [ OK ] %s = %q\n", config.KeyNodeVersion, settings.NodeVersion)
	return 0
}

func runManifestCheck(out io.Writer, dir string) error {
	fmt.Fprintf(out, "Manifest validation: %s\n", manifest.Path(dir))

	result, err := manifest.ValidateProject(dir)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		pkg, err := manifest.Read(dir)
		if err != nil {
			fmt.Fprintln(out, "  [ OK ] Valid package.json")
			return nil
		}
		fmt.Fprintf(out, "  [ OK ] Valid package.json: %s (v%s)\n", pkg.Name, pkg.Version)
		return nil
	}

	fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "    - %s\n", issue)
	}
	return fmt.Errorf("%s has %d validation issue(s)", manifest.Path(dir), len(result.Issues))
}
