package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "reactkit" {
		t.Errorf("CLIName() = %q, want %q", got, "reactkit")
	}
	if got := HomeDir(); got != ".reactkit" {
		t.Errorf("HomeDir() = %q, want %q", got, ".reactkit")
	}
}

func TestEnvVar(t *testing.T) {
	tests := []struct {
		suffix string
		want   string
	}{
		{"log_level", "REACTKIT_LOG_LEVEL"},
		{"HOME", "REACTKIT_HOME"},
	}
	for _, tt := range tests {
		if got := EnvVar(tt.suffix); got != tt.want {
			t.Errorf("EnvVar(%q) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}
