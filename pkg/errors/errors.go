package errors

import (
	"errors"
	"fmt"
)

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath    = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath  = fmt.Errorf("invalid config file path")
	ErrConfigParse        = fmt.Errorf("failed to parse config")
	ErrConfigValidation   = fmt.Errorf("invalid configuration")
	ErrConfigEncode       = fmt.Errorf("failed to encode config")
	ErrConfigMarshal      = fmt.Errorf("failed to marshal config")
	ErrConfigDirectory    = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate   = fmt.Errorf("failed to create config file")
	ErrConfigFileRename   = fmt.Errorf("failed to rename config file")
	ErrConfigFileChmod    = fmt.Errorf("failed to set config file permissions")
	ErrUnknownConfigKey   = fmt.Errorf("unknown configuration key")
	ErrInvalidConfigValue = fmt.Errorf("invalid configuration value")
	ErrConfigFileExists   = fmt.Errorf("config file already exists")

	// Backend worker errors.
	ErrWorkerUnavailable = fmt.Errorf("backend worker is not running")
	ErrWorkerClosed      = fmt.Errorf("backend worker connection closed")
	ErrBackendReply      = fmt.Errorf("failed to decode backend reply")
	ErrBackendCommand    = fmt.Errorf("backend command failed")

	// Checkrm errors.
	ErrCheckrmExecution = fmt.Errorf("failed to execute checkrm script")
	ErrCheckrmScript    = fmt.Errorf("checkrm script error")

	// Device and session errors.
	ErrDeviceModeHeld = fmt.Errorf("device mode is held by another workflow")
	ErrDeviceCommand  = fmt.Errorf("device command failed")

	// Persisted state errors.
	ErrBootMarker = fmt.Errorf("failed to write boot marker")
	ErrSnapshot   = fmt.Errorf("failed to save backup snapshot")

	// File install errors.
	ErrLocalize      = fmt.Errorf("failed to localize file")
	ErrManifestParse = fmt.Errorf("failed to parse install instructions")

	// Download errors.
	ErrDownloadFailed   = fmt.Errorf("download failed")
	ErrInvalidPath      = fmt.Errorf("invalid path")
	ErrFileHashMismatch = fmt.Errorf("file hash mismatch")

	// Cache errors.
	ErrCacheDirectory = fmt.Errorf("invalid cache directory")
	ErrCacheClean     = fmt.Errorf("failed to clean cache")

	// Command line errors.
	ErrNoPackagesSpecified = fmt.Errorf("no packages specified")
	ErrPackageNotFound     = fmt.Errorf("package not found")
	ErrNoSnapshot          = fmt.Errorf("no backup snapshot recorded")
)

// ErrInvalidOutputFormatWithDetails reports an unsupported output format.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: invalid output format %q (must be text or json)", ErrConfigValidation, format)
}

// ErrInvalidLogLevelWithDetails reports an unsupported log level.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: invalid log level %q (must be debug, info, warn or error)", ErrConfigValidation, level)
}

// ErrNegativeDurationWithName reports a negative delay setting.
func ErrNegativeDurationWithName(name string) error {
	return fmt.Errorf("%w: %s cannot be negative", ErrConfigValidation, name)
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
