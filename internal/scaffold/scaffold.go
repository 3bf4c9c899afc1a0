package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed all:scaffolds
var scaffoldFS embed.FS

// File sets, one per pipeline stage.
const (
	SetTesting = "testing"
	SetQuality = "quality"
	SetDocs    = "docs"
)

// Data holds all template variables available to scaffold templates.
type Data struct {
	Name         string // e.g., "demo-app"
	Template     string // canonical template name, e.g., "react-typescript"
	IsNext       bool   // Next.js layout (src/app) instead of Create React App
	StartCommand string // dev server command shown in the README
}

// NewData creates a Data with derived fields populated.
func NewData(name, templateName string) *Data {
	d := &Data{
		Name:         name,
		Template:     templateName,
		IsNext:       strings.HasPrefix(templateName, "next"),
		StartCommand: "npm start",
	}
	if d.IsNext {
		d.StartCommand = "npm run dev"
	}
	return d
}

// Result holds the outcome of writing a file set.
type Result struct {
	OutputDir string
	// Files are slash-separated paths relative to OutputDir, in lexical order.
	Files []string
}

// WriteError reports a file that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Write renders the named file set into outputDir, creating parent
// directories as needed and overwriting existing files.
func Write(set string, data *Data, outputDir string) (*Result, error) {
	root := path.Join("scaffolds", set)
	if _, err := fs.Stat(scaffoldFS, root); err != nil {
		return nil, fmt.Errorf("file set %q not found: %w", set, err)
	}

	result := &Result{OutputDir: outputDir}

	err := fs.WalkDir(scaffoldFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, root+"/")
		content, err := render(p, data)
		if err != nil {
			return err
		}

		// Strip .tmpl extension for the output filename.
		outRel := strings.TrimSuffix(rel, ".tmpl")
		outPath := filepath.Join(outputDir, filepath.FromSlash(outRel))

		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return &WriteError{Path: filepath.Dir(outPath), Err: err}
		}
		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return &WriteError{Path: outPath, Err: err}
		}

		result.Files = append(result.Files, outRel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// render returns the output bytes for one embedded file.
func render(p string, data *Data) ([]byte, error) {
	raw, err := fs.ReadFile(scaffoldFS, p)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", p, err)
	}
	if !strings.HasSuffix(p, ".tmpl") {
		return raw, nil
	}

	tmpl, err := template.New(path.Base(p)).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", p, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", p, err)
	}
	return buf.Bytes(), nil
}
