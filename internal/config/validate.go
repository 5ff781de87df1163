package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// Validate ensures the configuration is usable. It expects Normalize to have run.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRouting(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Run.Workers < 1 {
		return errors.New("run.workers must be at least 1")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.CSVPath == "" {
		return errors.New("csv_path is required")
	}
	info, err := os.Stat(c.Paths.CSVPath)
	if err != nil {
		return fmt.Errorf("csv_path %q: %w", c.Paths.CSVPath, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("csv_path %q is not a file", c.Paths.CSVPath)
	}

	if c.Paths.ImagePath == "" {
		return errors.New("image_path is required")
	}
	info, err = os.Stat(c.Paths.ImagePath)
	if err != nil {
		return fmt.Errorf("image_path %q: %w", c.Paths.ImagePath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("image_path %q is not a directory", c.Paths.ImagePath)
	}

	if info, err := os.Stat(c.Paths.OutputPath); err == nil && !info.IsDir() {
		return fmt.Errorf("output_path %q exists and is not a directory", c.Paths.OutputPath)
	}
	return nil
}

func (c *Config) validateRouting() error {
	if err := validateThreshold("routing.prob_threshold", c.Routing.ProbThreshold); err != nil {
		return err
	}
	if err := validateThreshold("routing.prob_multi_threshold", c.Routing.ProbMultiThreshold); err != nil {
		return err
	}
	if c.Routing.MaxMultiPred < MinMultiPred || c.Routing.MaxMultiPred > MaxMultiPred {
		return fmt.Errorf("routing.max_multi_pred must be between %d and %d", MinMultiPred, MaxMultiPred)
	}
	if strings.ContainsAny(c.Routing.UnknownCorridor, `/\`) {
		return errors.New("routing.unknown_corridor must be a single folder name")
	}
	return nil
}

// validateThreshold rejects non-finite thresholds. Values outside [0,1] are
// allowed: a threshold of 1 or more disables that rank.
func validateThreshold(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number, got %v", name, v)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
