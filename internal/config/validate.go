package config

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing the problem.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.ExperimentsDir == "" {
		errs = append(errs, ValidationError{
			Field:   "experiments_dir",
			Message: "experiments directory is required",
		})
	}

	if cfg.OutputDir == "" {
		errs = append(errs, ValidationError{
			Field:   "output_dir",
			Message: "must not be empty",
		})
	}

	if cfg.Window <= 0 {
		errs = append(errs, ValidationError{
			Field:   "window",
			Message: "must be positive",
		})
	}
	// Sub-millisecond windows floor to zero-width buckets in the
	// millisecond-stamped logs.
	if cfg.Window > 0 && cfg.Window < time.Millisecond {
		errs = append(errs, ValidationError{
			Field:   "window",
			Message: fmt.Sprintf("must be at least 1ms (got %v)", cfg.Window),
		})
	}

	if cfg.Workers < 1 {
		errs = append(errs, ValidationError{
			Field:   "workers",
			Message: "must be at least 1",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.LogFormat] {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
