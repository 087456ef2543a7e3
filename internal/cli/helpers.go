package cli

import (
	"fmt"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/internal/tui"
	"github.com/glorpus-work/appmanager/pkg/config"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
	AssumeYes    *bool
)

// loadConfig loads the configuration, applies the global flags and sets
// up logging and color output from the result.
func loadConfig() (*config.Config, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return nil, fmt.Errorf("failed to get default config path")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if NoColor != nil && *NoColor {
		cfg.Settings.ColorOutput = false
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}

	logger.InitLogger(cfg.Settings.LogLevel, logger.OutputFormat(cfg.Settings.OutputFormat))
	tui.SetColor(cfg.Settings.ColorOutput)
	return cfg, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

func assumeYes() bool {
	return AssumeYes != nil && *AssumeYes
}

func jsonOutput(cfg *config.Config) bool {
	return cfg.Settings.OutputFormat == string(logger.FormatJSON)
}
