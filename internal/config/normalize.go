package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Normalize expands paths, fills derived defaults, and clamps out-of-range
// counts. It is safe to call more than once.
func (c *Config) Normalize() error {
	var err error
	if c.Paths.CSVPath, err = expandPath(strings.TrimSpace(c.Paths.CSVPath)); err != nil {
		return fmt.Errorf("csv_path: %w", err)
	}
	if c.Paths.ImagePath, err = expandPath(strings.TrimSpace(c.Paths.ImagePath)); err != nil {
		return fmt.Errorf("image_path: %w", err)
	}
	output := strings.TrimSpace(c.Paths.OutputPath)
	if output == "" && c.Paths.ImagePath != "" {
		output = filepath.Join(c.Paths.ImagePath, defaultOutputDirName)
	}
	if c.Paths.OutputPath, err = expandPath(output); err != nil {
		return fmt.Errorf("output_path: %w", err)
	}

	if n, clamped := ClampMultiPred(c.Routing.MaxMultiPred); clamped {
		c.Warnings = append(c.Warnings, fmt.Sprintf(
			"max_multi_pred %d outside %d..%d, using %d (only up to %d species per image supported)",
			c.Routing.MaxMultiPred, MinMultiPred, MaxMultiPred, n, MaxMultiPred))
		c.Routing.MaxMultiPred = n
	}
	c.Routing.UnknownCorridor = strings.TrimSpace(c.Routing.UnknownCorridor)

	if c.Run.Workers <= 0 {
		c.Run.Workers = runtime.NumCPU()
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// ClampMultiPred bounds n to [MinMultiPred, MaxMultiPred] and reports whether
// it had to change.
func ClampMultiPred(n int) (int, bool) {
	clamped := min(max(n, MinMultiPred), MaxMultiPred)
	return clamped, clamped != n
}
