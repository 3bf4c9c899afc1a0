package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/reactkit-labs/reactkit/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Configuration keys.
const (
	KeyDefaultTemplate = "default_template"
	KeyNodeVersion     = "node_version"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyCommandTimeout  = "command_timeout"
	KeyHealthcheckKeep = "healthcheck.keep"
)

var defaultValues = map[string]any{
	KeyDefaultTemplate: "react-typescript",
	KeyNodeVersion:     ">= 14.0.0",
	KeyLogLevel:        "info",
	KeyLogFormat:       "console",
	KeyCommandTimeout:  "0s",
	KeyHealthcheckKeep: false,
}

// Values is the typed view of the configuration used by the pipeline.
type Values struct {
	DefaultTemplate string
	NodeVersion     string
	LogLevel        string
	LogFormat       string
	// CommandTimeout bounds each child process. Zero means no timeout.
	CommandTimeout  time.Duration
	HealthcheckKeep bool
}

// Dir returns the path to the config directory (~/.reactkit/).
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.reactkit/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Nested keys map to env vars with dots replaced, so healthcheck.keep is
// read from REACTKIT_HEALTHCHECK_KEEP.
func Load() {
	for k, v := range defaultValues {
		viper.SetDefault(k, v)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Keys returns every known key in sorted order, defaults included.
func Keys() []string {
	seen := make(map[string]bool)
	for k := range defaultValues {
		seen[k] = true
	}
	for _, k := range viper.AllKeys() {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Settings returns the typed configuration. Load must be called first.
func Settings() Values {
	return Values{
		DefaultTemplate: viper.GetString(KeyDefaultTemplate),
		NodeVersion:     viper.GetString(KeyNodeVersion),
		LogLevel:        viper.GetString(KeyLogLevel),
		LogFormat:       viper.GetString(KeyLogFormat),
		CommandTimeout:  viper.GetDuration(KeyCommandTimeout),
		HealthcheckKeep: viper.GetBool(KeyHealthcheckKeep),
	}
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
