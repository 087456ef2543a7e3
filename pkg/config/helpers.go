package config

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/appmanager/pkg/errors"
)

type accessor struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(f func(c *Config) *string) accessor {
	return accessor{
		get: func(c *Config) string { return *f(c) },
		set: func(c *Config, v string) error { *f(c) = v; return nil },
	}
}

func boolField(f func(c *Config) *bool) accessor {
	return accessor{
		get: func(c *Config) string { return strconv.FormatBool(*f(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidConfigValue, "expected boolean, got %q", v)
			}
			*f(c) = b
			return nil
		},
	}
}

func intField(f func(c *Config) *int) accessor {
	return accessor{
		get: func(c *Config) string { return strconv.Itoa(*f(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidConfigValue, "expected integer, got %q", v)
			}
			*f(c) = n
			return nil
		},
	}
}

func durationField(f func(c *Config) *time.Duration) accessor {
	return accessor{
		get: func(c *Config) string { return f(c).String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidConfigValue, "expected duration, got %q", v)
			}
			*f(c) = d
			return nil
		},
	}
}

func listField(f func(c *Config) *[]string) accessor {
	return accessor{
		get: func(c *Config) string { return strings.Join(*f(c), " ") },
		set: func(c *Config, v string) error { *f(c) = strings.Fields(v); return nil },
	}
}

// keys maps the dotted names accepted by `config get/set` to fields.
var keys = map[string]accessor{
	"state_dir":                   stringField(func(c *Config) *string { return &c.Settings.StateDir }),
	"cache_dir":                   stringField(func(c *Config) *string { return &c.Settings.CacheDir }),
	"checkrm_dir":                 stringField(func(c *Config) *string { return &c.Settings.CheckrmDir }),
	"legacy_checkrm_dir":          stringField(func(c *Config) *string { return &c.Settings.LegacyCheckrmDir }),
	"http_timeout":                durationField(func(c *Config) *time.Duration { return &c.Settings.HTTPTimeout }),
	"download_retries":            intField(func(c *Config) *int { return &c.Settings.DownloadRetries }),
	"ssu_install_delay":           durationField(func(c *Config) *time.Duration { return &c.Settings.SSUInstallDelay }),
	"reboot_delay":                durationField(func(c *Config) *time.Duration { return &c.Settings.RebootDelay }),
	"reboot_settle_delay":         durationField(func(c *Config) *time.Duration { return &c.Settings.RebootSettleDelay }),
	"clean_after_install":         boolField(func(c *Config) *bool { return &c.Settings.CleanAfterInstall }),
	"output_format":               stringField(func(c *Config) *string { return &c.Settings.OutputFormat }),
	"log_level":                   stringField(func(c *Config) *string { return &c.Settings.LogLevel }),
	"color_output":                boolField(func(c *Config) *bool { return &c.Settings.ColorOutput }),
	"worker.command":              stringField(func(c *Config) *string { return &c.Worker.Command }),
	"worker.args":                 listField(func(c *Config) *[]string { return &c.Worker.Args }),
	"device.network_probe":        stringField(func(c *Config) *string { return &c.Device.NetworkProbe }),
	"device.battery_dir":          stringField(func(c *Config) *string { return &c.Device.BatteryDir }),
	"device.min_battery_percent":  intField(func(c *Config) *int { return &c.Device.MinBatteryPercent }),
	"device.backup_command":       listField(func(c *Config) *[]string { return &c.Device.BackupCommand }),
	"device.interpreter_command":  listField(func(c *Config) *[]string { return &c.Device.InterpreterCommand }),
	"advanced.red_pill":           boolField(func(c *Config) *bool { return &c.Advanced.RedPill }),
	"advanced.ignore_third_party": boolField(func(c *Config) *bool { return &c.Advanced.IgnoreThirdPartyPolicy }),
	"advanced.show_all":           boolField(func(c *Config) *bool { return &c.Advanced.ShowAll }),
}

// SetValue sets a configuration value by key and revalidates.
func (c *Config) SetValue(key, value string) error {
	acc, ok := keys[key]
	if !ok {
		return errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	if err := acc.set(c, value); err != nil {
		return errors.Wrapf(err, "%s", key)
	}
	return c.Validate()
}

// GetValue returns the value of key as a string.
func (c *Config) GetValue(key string) (string, error) {
	acc, ok := keys[key]
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return acc.get(c), nil
}

// Keys returns all settable keys in sorted order.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ToMap returns every key with its current value.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string, len(keys))
	for k, acc := range keys {
		result[k] = acc.get(c)
	}
	return result
}
