package scaffold

import (
	_ "embed"
	"fmt"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed toolsets.yaml
var rawToolsets []byte

// Script is a named command registered in the project manifest.
type Script struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

// Toolset lists the packages and manifest scripts a stage installs.
type Toolset struct {
	DevDependencies []string `yaml:"dev_dependencies"`
	Scripts         []Script `yaml:"scripts"`
}

// ScriptNames returns the script names in declaration order.
func (t Toolset) ScriptNames() []string {
	names := make([]string, len(t.Scripts))
	for i, s := range t.Scripts {
		names[i] = s.Name
	}
	return names
}

var (
	toolsetsOnce sync.Once
	toolsets     map[string]Toolset
	toolsetsErr  error
)

// LoadToolset returns the embedded toolset for a file set.
func LoadToolset(set string) (Toolset, error) {
	toolsetsOnce.Do(func() {
		if err := yaml.Unmarshal(rawToolsets, &toolsets); err != nil {
			toolsetsErr = fmt.Errorf("parsing toolsets: %w", err)
		}
	})
	if toolsetsErr != nil {
		return Toolset{}, toolsetsErr
	}
	ts, ok := toolsets[set]
	if !ok {
		return Toolset{}, fmt.Errorf("toolset %q not found", set)
	}
	return ts, nil
}
