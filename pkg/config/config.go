// Package config provides configuration management for appmanager.
// It handles loading, validating and saving the YAML settings file that
// controls the backend worker, the device hooks used around system
// updates, the timing of the install pipeline and the advanced ("red
// pill") mode toggles.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings       `yaml:"settings"`
	Worker   WorkerConfig   `yaml:"worker"`
	Device   DeviceConfig   `yaml:"device"`
	Advanced AdvancedConfig `yaml:"advanced"`
}

// Settings represents general application settings.
type Settings struct {
	StateDir string `yaml:"state_dir,omitempty"`
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Locations of the per-package checkrm scripts. The legacy directory
	// is consulted when the script is missing from CheckrmDir.
	CheckrmDir       string `yaml:"checkrm_dir"`
	LegacyCheckrmDir string `yaml:"legacy_checkrm_dir"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Install pipeline tuning
	DownloadRetries   int           `yaml:"download_retries"`
	SSUInstallDelay   time.Duration `yaml:"ssu_install_delay"`
	RebootDelay       time.Duration `yaml:"reboot_delay"`
	RebootSettleDelay time.Duration `yaml:"reboot_settle_delay"`
	CleanAfterInstall bool          `yaml:"clean_after_install"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
	ColorOutput  bool   `yaml:"color_output"`
}

// WorkerConfig describes how to start the privileged backend worker.
type WorkerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// DeviceConfig holds the hooks into the running system that the install
// pipeline drives around reboot-requiring and system-update packages.
// Empty commands are skipped.
type DeviceConfig struct {
	NetworkProbe      string        `yaml:"network_probe"`
	NetworkTimeout    time.Duration `yaml:"network_timeout"`
	BatteryDir        string        `yaml:"battery_dir"`
	MinBatteryPercent int           `yaml:"min_battery_percent"`

	OfflineCommand         []string `yaml:"offline_command,omitempty"`
	OnlineCommand          []string `yaml:"online_command,omitempty"`
	CloseAppsCommand       []string `yaml:"close_apps_command,omitempty"`
	QuiesceCommand         []string `yaml:"quiesce_command,omitempty"`
	BackupCommand          []string `yaml:"backup_command,omitempty"`
	PrestartEnableCommand  []string `yaml:"prestart_enable_command,omitempty"`
	PrestartDisableCommand []string `yaml:"prestart_disable_command,omitempty"`
	InterpreterCommand     []string `yaml:"interpreter_command,omitempty"`
}

// AdvancedConfig are the unrestricted-mode toggles.
type AdvancedConfig struct {
	RedPill                bool `yaml:"red_pill"`
	IgnoreThirdPartyPolicy bool `yaml:"ignore_third_party_policy"`
	ShowAll                bool `yaml:"show_all"`
}

// Default configuration values.
const (
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultDownloadRetries   = 3
	DefaultSSUInstallDelay   = 3 * time.Second
	DefaultRebootDelay       = 2 * time.Second
	DefaultRebootSettleDelay = 3 * time.Second
	DefaultNetworkTimeout    = 5 * time.Second
	DefaultMinBatteryPercent = 15

	DefaultCheckrmDir       = "/var/lib/hildon-application-manager/info"
	DefaultLegacyCheckrmDir = "/var/lib/osso-application-installer/info"
	DefaultNetworkProbe     = "repository.maemo.org:80"
	DefaultBatteryDir       = "/sys/class/power_supply/BAT0"
	DefaultWorkerCommand    = "/usr/libexec/appmanager-worker"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2

	appDirName = "appmanager"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	stateDir, err := getUserDataDir()
	if err != nil {
		stateDir = filepath.Join(os.TempDir(), appDirName)
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	return &Config{
		Settings: Settings{
			StateDir:          stateDir,
			CacheDir:          cacheDir,
			CheckrmDir:        DefaultCheckrmDir,
			LegacyCheckrmDir:  DefaultLegacyCheckrmDir,
			HTTPTimeout:       DefaultHTTPTimeout,
			DownloadRetries:   DefaultDownloadRetries,
			SSUInstallDelay:   DefaultSSUInstallDelay,
			RebootDelay:       DefaultRebootDelay,
			RebootSettleDelay: DefaultRebootSettleDelay,
			OutputFormat:      "text",
			LogLevel:          "info",
			ColorOutput:       true,
		},
		Worker: WorkerConfig{
			Command: DefaultWorkerCommand,
		},
		Device: DeviceConfig{
			NetworkProbe:      DefaultNetworkProbe,
			NetworkTimeout:    DefaultNetworkTimeout,
			BatteryDir:        DefaultBatteryDir,
			MinBatteryPercent: DefaultMinBatteryPercent,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig writes the configuration atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	if err := os.Chmod(absPath, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileChmod, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	if c.Worker.Command == "" {
		return fmt.Errorf("%w: worker command cannot be empty", errors.ErrConfigValidation)
	}
	if c.Device.MinBatteryPercent < 0 || c.Device.MinBatteryPercent > 100 {
		return fmt.Errorf("%w: min_battery_percent must be within 0..100", errors.ErrConfigValidation)
	}
	if c.Device.NetworkTimeout < 0 {
		return errors.ErrNegativeDurationWithName("network_timeout")
	}
	return nil
}

func validateSettings(s Settings) error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"http_timeout", s.HTTPTimeout},
		{"ssu_install_delay", s.SSUInstallDelay},
		{"reboot_delay", s.RebootDelay},
		{"reboot_settle_delay", s.RebootSettleDelay},
	}
	for _, d := range durations {
		if d.d < 0 {
			return errors.ErrNegativeDurationWithName(d.name)
		}
	}
	if s.DownloadRetries < 0 {
		return fmt.Errorf("%w: download_retries cannot be negative", errors.ErrConfigValidation)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return errors.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, appDirName, "config.yaml"), nil
}

// BootMarkerPath is where the boot-intent marker is written before a reboot.
func (c *Config) BootMarkerPath() string {
	return filepath.Join(c.Settings.StateDir, appDirName, "boot.yaml")
}

// BackupDBPath is the sqlite database holding backup snapshots.
func (c *Config) BackupDBPath() string {
	return filepath.Join(c.Settings.StateDir, appDirName, "backup.db")
}

// DownloadDir is where remote package files are localized.
func (c *Config) DownloadDir() string {
	return filepath.Join(c.Settings.CacheDir, appDirName, "downloads")
}

// applyDefaults fills in missing values with defaults. Durations left at
// zero are taken as unset.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	s, d := &c.Settings, defaults.Settings
	if s.StateDir == "" {
		s.StateDir = d.StateDir
	}
	if s.CacheDir == "" {
		s.CacheDir = d.CacheDir
	}
	if s.CheckrmDir == "" {
		s.CheckrmDir = d.CheckrmDir
	}
	if s.LegacyCheckrmDir == "" {
		s.LegacyCheckrmDir = d.LegacyCheckrmDir
	}
	if s.HTTPTimeout == 0 {
		s.HTTPTimeout = d.HTTPTimeout
	}
	if s.DownloadRetries == 0 {
		s.DownloadRetries = d.DownloadRetries
	}
	if s.SSUInstallDelay == 0 {
		s.SSUInstallDelay = d.SSUInstallDelay
	}
	if s.RebootDelay == 0 {
		s.RebootDelay = d.RebootDelay
	}
	if s.RebootSettleDelay == 0 {
		s.RebootSettleDelay = d.RebootSettleDelay
	}
	if s.OutputFormat == "" {
		s.OutputFormat = d.OutputFormat
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}

	if c.Worker.Command == "" {
		c.Worker.Command = defaults.Worker.Command
	}

	dev := &c.Device
	if dev.NetworkProbe == "" {
		dev.NetworkProbe = defaults.Device.NetworkProbe
	}
	if dev.NetworkTimeout == 0 {
		dev.NetworkTimeout = defaults.Device.NetworkTimeout
	}
	if dev.BatteryDir == "" {
		dev.BatteryDir = defaults.Device.BatteryDir
	}
	if dev.MinBatteryPercent == 0 {
		dev.MinBatteryPercent = defaults.Device.MinBatteryPercent
	}
}

func getUserDataDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "state"), nil
}
