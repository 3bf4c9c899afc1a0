package project

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/reactkit-labs/reactkit/internal/toolchain"
	"go.yaml.in/yaml/v3"
)

//go:embed templates.yaml
var rawTemplates []byte

// nameToken is replaced with the project name in generator args.
const nameToken = "{name}"

// Template is one entry of the allow-list.
type Template struct {
	Name        string        `yaml:"name"`
	Aliases     []string      `yaml:"aliases"`
	Description string        `yaml:"description"`
	Generator   GeneratorSpec `yaml:"generator"`
	// Scripts replace same-named quality scripts for this template.
	Scripts map[string]string `yaml:"scripts"`
}

// GeneratorSpec is the external command that produces the base tree.
type GeneratorSpec struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Render returns the generator invocation for a project name, run from dir.
func (g GeneratorSpec) Render(name, dir string) toolchain.Command {
	args := make([]string, len(g.Args))
	for i, a := range g.Args {
		args[i] = strings.ReplaceAll(a, nameToken, name)
	}
	return toolchain.Command{Name: g.Command, Args: args, Dir: dir}
}

// Catalog is the fixed set of supported templates.
type Catalog struct {
	Default   string     `yaml:"default"`
	Templates []Template `yaml:"templates"`
}

var (
	builtinOnce    sync.Once
	builtinCatalog *Catalog
	builtinErr     error
)

// Builtin returns the embedded template catalog, parsed once.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		builtinCatalog, builtinErr = ParseCatalog(rawTemplates)
	})
	return builtinCatalog, builtinErr
}

// ParseCatalog parses and sanity-checks a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing template catalog: %w", err)
	}
	if len(c.Templates) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}

	seen := make(map[string]string)
	for _, t := range c.Templates {
		if t.Generator.Command == "" {
			return nil, fmt.Errorf("template %q has no generator command", t.Name)
		}
		for name, command := range t.Scripts {
			if strings.TrimSpace(name) == "" || strings.TrimSpace(command) == "" {
				return nil, fmt.Errorf("template %q has an empty script override", t.Name)
			}
		}
		for _, key := range append([]string{t.Name}, t.Aliases...) {
			key = normalize(key)
			if owner, dup := seen[key]; dup {
				return nil, fmt.Errorf("template key %q used by both %q and %q", key, owner, t.Name)
			}
			seen[key] = t.Name
		}
	}
	if _, ok := c.lookup(c.Default); !ok {
		return nil, fmt.Errorf("default template %q is not in the catalog", c.Default)
	}
	return &c, nil
}

// Names returns the canonical template names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Templates))
	for i, t := range c.Templates {
		names[i] = t.Name
	}
	return names
}

// Resolve normalizes raw (trim, lower-case, alias lookup) and returns the
// matching template. An empty value selects fallback, or the catalog
// default when fallback is also empty.
func (c *Catalog) Resolve(raw, fallback string) (Template, error) {
	value := raw
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	if strings.TrimSpace(value) == "" {
		value = c.Default
	}
	t, ok := c.lookup(value)
	if !ok {
		allowed := c.Names()
		sort.Strings(allowed)
		return Template{}, &UnsupportedTemplateError{Value: value, Allowed: allowed}
	}
	return t, nil
}

func (c *Catalog) lookup(value string) (Template, bool) {
	key := normalize(value)
	for _, t := range c.Templates {
		if normalize(t.Name) == key {
			return t, true
		}
		for _, a := range t.Aliases {
			if normalize(a) == key {
				return t, true
			}
		}
	}
	return Template{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
