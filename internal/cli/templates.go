package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/reactkit-labs/reactkit/internal/project"
	"github.com/spf13/cobra"
)

var templatesJSON bool

func init() {
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List supported project templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

// templateEntry represents a template for display.
type templateEntry struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Default     bool     `json:"default"`
	Description string   `json:"description"`
	Generator   string   `json:"generator"`
}

func runTemplates(cmd *cobra.Command, args []string) error {
	catalog, err := project.Builtin()
	if err != nil {
		return err
	}

	defaultName := catalog.Default
	if t, err := catalog.Resolve(settings.DefaultTemplate, ""); err == nil {
		defaultName = t.Name
	}

	entries := make([]templateEntry, 0, len(catalog.Templates))
	for _, t := range catalog.Templates {
		entries = append(entries, templateEntry{
			Name:        t.Name,
			Aliases:     t.Aliases,
			Default:     t.Name == defaultName,
			Description: t.Description,
			Generator:   t.Generator.Render("<name>", "").String(),
		})
	}

	if templatesJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tALIASES\tDESCRIPTION")
	for _, e := range entries {
		name := e.Name
		if e.Default {
			name += " (default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(e.Aliases, ", "), e.Description)
	}
	return w.Flush()
}
