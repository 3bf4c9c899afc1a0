package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testPath(name string) string {
	return filepath.Join("testdata", name)
}

// projectWith copies a testdata file into a temp project dir as package.json.
func projectWith(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(testPath(name))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), data, 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRead(t *testing.T) {
	dir := projectWith(t, "valid-package.json")

	p, err := Read(dir)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if p.Name != "demo-app" {
		t.Errorf("Name = %q, want demo-app", p.Name)
	}
	if p.Scripts["lint"] != "eslint src --ext .ts,.tsx" {
		t.Errorf("lint script = %q", p.Scripts["lint"])
	}
	if p.DevDependencies["jest"] == "" {
		t.Error("expected jest devDependency")
	}
}

func TestRead_NotFound(t *testing.T) {
	if _, err := Read(t.TempDir()); err == nil {
		t.Fatal("expected error for missing package.json")
	}
}

func TestMissingScripts(t *testing.T) {
	dir := projectWith(t, "missing-scripts.json")
	p, err := Read(dir)
	if err != nil {
		t.Fatal(err)
	}

	got := p.MissingScripts([]string{"lint", "format", "test:coverage", "test:watch"})
	want := []string{"format", "test:coverage", "test:watch"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("MissingScripts() = %v, want %v", got, want)
	}
}

func TestValidateProject_Valid(t *testing.T) {
	result, err := ValidateProject(projectWith(t, "valid-package.json"))
	if err != nil {
		t.Fatalf("ValidateProject() error: %v", err)
	}
	if !result.Valid {
		for _, issue := range result.Issues {
			t.Errorf("  %s (keyword=%s)", issue, issue.Keyword)
		}
	}
}

func TestValidateProject_Invalid(t *testing.T) {
	tests := []struct {
		file    string
		keyword string
	}{
		{"missing-scripts.json", "required"},
		{"bad-name.json", "pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateProject(projectWith(t, tt.file))
			if err != nil {
				t.Fatalf("ValidateProject() unexpected error: %v", err)
			}
			if result.Valid {
				t.Fatalf("expected %s to be invalid", tt.file)
			}
			found := false
			for _, issue := range result.Issues {
				if issue.Keyword == tt.keyword {
					found = true
				}
				if issue.Message == "" {
					t.Errorf("issue has empty message: %+v", issue)
				}
			}
			if !found {
				t.Errorf("expected a %q issue, got %+v", tt.keyword, result.Issues)
			}
		})
	}
}

func TestValidate_NotJSON(t *testing.T) {
	data, err := os.ReadFile(testPath("not-json.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Validate(data); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidationIssueString(t *testing.T) {
	if got := (ValidationIssue{Path: "/scripts", Message: "missing lint"}).String(); got != "/scripts: missing lint" {
		t.Errorf("String() = %q", got)
	}
	if got := (ValidationIssue{Message: "bad"}).String(); got != "bad" {
		t.Errorf("String() = %q", got)
	}
}
