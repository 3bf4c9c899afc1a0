package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest file name inside a project.
const FileName = "package.json"

// Package is the subset of package.json the pipeline inspects.
type Package struct {
	Name            string            `json:"name"`
	Version         string            `json:"version,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// Path returns the manifest path for a project directory.
func Path(projectDir string) string {
	return filepath.Join(projectDir, FileName)
}

// Read parses the manifest in projectDir.
func Read(projectDir string) (*Package, error) {
	data, err := readFile(Path(projectDir))
	if err != nil {
		return nil, err
	}
	var p Package
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", Path(projectDir), err)
	}
	return &p, nil
}

// MissingScripts returns the names from want that the manifest does not
// define, in the order given.
func (p *Package) MissingScripts(want []string) []string {
	var missing []string
	for _, name := range want {
		if _, ok := p.Scripts[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return data, nil
}
