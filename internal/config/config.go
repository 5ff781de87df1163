package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the prediction CSV, the source images, and the output tree.
type Paths struct {
	CSVPath    string `toml:"csv_path"`
	ImagePath  string `toml:"image_path"`
	OutputPath string `toml:"output_path"`
}

// Routing holds the thresholds that decide where each prediction rank is filed.
type Routing struct {
	ProbThreshold      float64 `toml:"prob_threshold"`
	ProbMultiThreshold float64 `toml:"prob_multi_threshold"`
	MaxMultiPred       int     `toml:"max_multi_pred"`
	// UnknownCorridor names the folder used when camera metadata has no
	// corridor identifier. Empty means such images fail.
	UnknownCorridor string `toml:"unknown_corridor"`
}

// Run controls how rows are executed.
type Run struct {
	Workers   int  `toml:"workers"`
	KeepGoing bool `toml:"keep_going"`
	DryRun    bool `toml:"dry_run"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates every setting the sorter needs.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Routing Routing `toml:"routing"`
	Run     Run     `toml:"run"`
	Logging Logging `toml:"logging"`

	// Warnings collects non-fatal adjustments made during normalization,
	// such as clamping max_multi_pred. Callers log them once a logger exists.
	Warnings []string `toml:"-"`
}

// Load returns Default() overlaid with the TOML file at path. An empty path
// skips the file entirely. The result is not normalized or validated yet so
// callers can apply flag overrides first.
func Load(path string) (*Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return &cfg, nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	return &cfg, nil
}

// Prepare normalizes and validates the configuration in one step.
func (c *Config) Prepare() error {
	if err := c.Normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// OutputCSVPath is where the augmented prediction table is written.
func (c *Config) OutputCSVPath() string {
	return filepath.Join(c.Paths.OutputPath, filepath.Base(c.Paths.CSVPath))
}

// LockPath is the lock file guarding the output tree against concurrent runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.OutputPath, ".species-sorter.lock")
}

// EnsureOutput creates the output directory if needed and confirms the
// process can write into it.
func (c *Config) EnsureOutput() error {
	dir := c.Paths.OutputPath
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}
	if err := checkWritable(dir); err != nil {
		return fmt.Errorf("output directory %q is not writable: %w", dir, err)
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// DefaultConfigPath returns where `config init` writes when no path is given.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/species-sorter/config.toml")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
