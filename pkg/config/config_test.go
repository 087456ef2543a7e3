package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, 3, cfg.Settings.DownloadRetries)
	assert.Equal(t, 3*time.Second, cfg.Settings.SSUInstallDelay)
	assert.Equal(t, 2*time.Second, cfg.Settings.RebootDelay)
	assert.Equal(t, 3*time.Second, cfg.Settings.RebootSettleDelay)
	assert.Equal(t, DefaultCheckrmDir, cfg.Settings.CheckrmDir)
	assert.Equal(t, DefaultLegacyCheckrmDir, cfg.Settings.LegacyCheckrmDir)
	assert.False(t, cfg.Advanced.RedPill)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `settings:
  log_level: debug
  ssu_install_delay: 500ms
  clean_after_install: true
worker:
  command: /opt/worker
  args: ["--verbose"]
device:
  offline_command: ["dbus-send", "--system", "offline"]
advanced:
  red_pill: true
  show_all: true`

	require.NoError(t, os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.Settings.SSUInstallDelay)
	assert.True(t, cfg.Settings.CleanAfterInstall)
	assert.Equal(t, "/opt/worker", cfg.Worker.Command)
	assert.Equal(t, []string{"--verbose"}, cfg.Worker.Args)
	assert.Equal(t, []string{"dbus-send", "--system", "offline"}, cfg.Device.OfflineCommand)
	assert.True(t, cfg.Advanced.RedPill)
	assert.True(t, cfg.Advanced.ShowAll)
	assert.False(t, cfg.Advanced.IgnoreThirdPartyPolicy)

	// unset values fall back to defaults
	assert.Equal(t, 2*time.Second, cfg.Settings.RebootDelay)
	assert.Equal(t, DefaultNetworkProbe, cfg.Device.NetworkProbe)
}

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Settings.RebootDelay, cfg.Settings.RebootDelay)

	_, err = LoadConfig("")
	assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
}

func TestLoadConfigFromReader_Invalid(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader("settings: [oops"))
	assert.ErrorIs(t, err, errors.ErrConfigParse)

	_, err = LoadConfigFromReader(strings.NewReader("settings:\n  output_format: xml\n"))
	assert.ErrorIs(t, err, errors.ErrConfigValidation)

	_, err = LoadConfigFromReader(strings.NewReader("settings:\n  reboot_delay: -1s\n"))
	assert.ErrorIs(t, err, errors.ErrConfigValidation)
	assert.Contains(t, err.Error(), "reboot_delay")
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.LogLevel = "debug"
	cfg.Advanced.IgnoreThirdPartyPolicy = true

	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.SaveConfig(configPath))

	_, err := os.Stat(configPath + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not survive")

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Settings.LogLevel)
	assert.True(t, loaded.Advanced.IgnoreThirdPartyPolicy)
	assert.Equal(t, cfg.Settings.SSUInstallDelay, loaded.Settings.SSUInstallDelay)
}

func TestSetGetValue(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.SetValue("advanced.red_pill", "true"))
	assert.True(t, cfg.Advanced.RedPill)

	require.NoError(t, cfg.SetValue("reboot_settle_delay", "10s"))
	v, err := cfg.GetValue("reboot_settle_delay")
	require.NoError(t, err)
	assert.Equal(t, "10s", v)

	require.NoError(t, cfg.SetValue("worker.args", "--foo  --bar"))
	assert.Equal(t, []string{"--foo", "--bar"}, cfg.Worker.Args)

	assert.ErrorIs(t, cfg.SetValue("advanced.red_pill", "maybe"), errors.ErrInvalidConfigValue)
	assert.ErrorIs(t, cfg.SetValue("log_level", "loud"), errors.ErrConfigValidation)
	assert.ErrorIs(t, cfg.SetValue("nope", "x"), errors.ErrUnknownConfigKey)

	_, err = cfg.GetValue("nope")
	assert.ErrorIs(t, err, errors.ErrUnknownConfigKey)
}

func TestKeysAndToMap(t *testing.T) {
	cfg := DefaultConfig()
	ks := Keys()
	m := cfg.ToMap()

	assert.Len(t, m, len(ks))
	assert.True(t, sortedStrings(ks))
	assert.Equal(t, "3", m["download_retries"])
}

func TestStatePaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.StateDir = "/state"
	cfg.Settings.CacheDir = "/cache"

	assert.Equal(t, filepath.Join("/state", "appmanager", "boot.yaml"), cfg.BootMarkerPath())
	assert.Equal(t, filepath.Join("/state", "appmanager", "backup.db"), cfg.BackupDBPath())
	assert.Equal(t, filepath.Join("/cache", "appmanager", "downloads"), cfg.DownloadDir())
}

func TestGetUserDataDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	dir, err := getUserDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/state", dir)

	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/home/tester")
	dir, err = getUserDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".local", "state"), dir)
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
