package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates all configuration values and returns an error if any are invalid
func (c *Config) Validate() error {
	var errs []string

	// Port validation (1-65535)
	if err := c.validatePort(); err != nil {
		errs = append(errs, err.Error())
	}

	// Log level validation
	if err := c.validateLogLevel(); err != nil {
		errs = append(errs, err.Error())
	}

	// DataDir validation - create if not exists
	if err := c.validateDataDir(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// validatePort validates that the port is a valid number between 1 and 65535
func (c *Config) validatePort() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return ValidationError{
			Field:   "METAPARSE_PORT",
			Message: fmt.Sprintf("invalid port '%s' (must be a number)", c.Port),
		}
	}
	if port < 1 || port > 65535 {
		return ValidationError{
			Field:   "METAPARSE_PORT",
			Message: fmt.Sprintf("invalid port '%d' (must be 1-65535)", port),
		}
	}
	return nil
}

// validateLogLevel validates that the log level is one of: debug, info, warn, error
func (c *Config) validateLogLevel() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	level := strings.ToLower(c.LogLevel)
	if !validLevels[level] {
		return ValidationError{
			Field:   "METAPARSE_LOG_LEVEL",
			Message: fmt.Sprintf("invalid level '%s' (must be debug/info/warn/error)", c.LogLevel),
		}
	}
	return nil
}

// validateDataDir validates that the data directory can be created/accessed
func (c *Config) validateDataDir() error {
	if c.DataDir == "" {
		return ValidationError{
			Field:   "METAPARSE_DATA_DIR",
			Message: "data directory cannot be empty",
		}
	}

	// Try to create the directory if it doesn't exist
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return ValidationError{
			Field:   "METAPARSE_DATA_DIR",
			Message: fmt.Sprintf("cannot create directory '%s': %v", c.DataDir, err),
		}
	}

	// Verify it's writable by creating a temp file
	testFile := c.DataDir + "/.metaparse_write_test"
	f, err := os.Create(testFile)
	if err != nil {
		return ValidationError{
			Field:   "METAPARSE_DATA_DIR",
			Message: fmt.Sprintf("directory '%s' is not writable: %v", c.DataDir, err),
		}
	}
	f.Close()
	os.Remove(testFile)

	return nil
}
