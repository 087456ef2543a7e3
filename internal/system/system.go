// Package system connects the workflows to the running device: network
// reachability, the battery, and the external commands that close
// applications, toggle offline mode, start the backup tool and run the
// catalogue interpreter.
package system

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/go-cmd/cmd"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/config"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/manifest"
	"github.com/glorpus-work/appmanager/pkg/session"
)

// Device implements the workflow environment and the session's device
// controller on top of DeviceConfig. Commands left empty are skipped.
type Device struct {
	cfg config.DeviceConfig

	// pending device mode changes, applied one at a time in order
	modeMu      sync.Mutex
	modeQueue   []func()
	modeRunning bool
}

// New returns a Device for cfg.
func New(cfg config.DeviceConfig) *Device {
	return &Device{cfg: cfg}
}

// EnsureNetwork reports whether the network probe address accepts a TCP
// connection. An empty probe counts as connected.
func (d *Device) EnsureNetwork(ctx context.Context, done func(bool)) {
	go func() {
		done(d.probe(ctx))
	}()
}

func (d *Device) probe(ctx context.Context) bool {
	if d.cfg.NetworkProbe == "" {
		return true
	}
	timeout := d.cfg.NetworkTimeout
	if timeout <= 0 {
		timeout = config.DefaultNetworkTimeout
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.cfg.NetworkProbe)
	if err != nil {
		logger.Warn("network is not available", logger.Fields{"probe": d.cfg.NetworkProbe, "error": err.Error()})
		return false
	}
	_ = conn.Close()
	return true
}

// BatteryLow reports whether the battery is discharging below the
// configured threshold.
func (d *Device) BatteryLow() bool {
	b, err := ReadBattery(d.cfg.BatteryDir)
	if err != nil {
		logger.Debug("battery state unavailable", logger.Fields{"dir": d.cfg.BatteryDir, "error": err.Error()})
		return false
	}
	return !b.Charging() && b.Capacity < d.cfg.MinBatteryPercent
}

// CloseApps asks the running applications to exit.
func (d *Device) CloseApps(ctx context.Context, done func()) {
	go func() {
		d.run(ctx, "close-apps", d.cfg.CloseAppsCommand)
		done()
	}()
}

// QuiesceStatusMenu silences the status area before a system update.
func (d *Device) QuiesceStatusMenu(ctx context.Context, done func()) {
	go func() {
		d.run(ctx, "quiesce", d.cfg.QuiesceCommand)
		done()
	}()
}

// SetPrestart toggles application prestarting.
func (d *Device) SetPrestart(enabled bool) {
	argv := d.cfg.PrestartDisableCommand
	if enabled {
		argv = d.cfg.PrestartEnableCommand
	}
	go d.run(context.Background(), "prestart", argv)
}

// LaunchBackup starts the backup application and does not wait for it.
func (d *Device) LaunchBackup() {
	go d.run(context.Background(), "backup", d.cfg.BackupCommand)
}

// RunInstructions hands the instruction file to the interpreter command.
// Without one, the instructions are only logged.
func (d *Device) RunInstructions(ctx context.Context, path string, inst *manifest.Instructions) {
	names := make([]string, 0, len(inst.Repositories))
	for _, r := range inst.Repositories {
		names = append(names, r.Name)
	}
	logger.Info("running install instructions", logger.Fields{
		"path":         path,
		"repositories": strings.Join(names, ","),
		"packages":     strings.Join(inst.Packages, ","),
	})
	if len(d.cfg.InterpreterCommand) == 0 {
		return
	}
	argv := append(append([]string(nil), d.cfg.InterpreterCommand...), path)
	go d.run(ctx, "interpreter", argv)
}

// SetDeviceMode switches the device between normal and offline mode in
// the background and reports the outcome to done.
func (d *Device) SetDeviceMode(mode session.DeviceMode, done func(error)) {
	argv := d.cfg.OnlineCommand
	if mode == session.ModeOffline {
		argv = d.cfg.OfflineCommand
	}
	d.enqueueMode(func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		done(RunCommand(ctx, argv))
	})
}

func (d *Device) enqueueMode(fn func()) {
	d.modeMu.Lock()
	d.modeQueue = append(d.modeQueue, fn)
	if d.modeRunning {
		d.modeMu.Unlock()
		return
	}
	d.modeRunning = true
	d.modeMu.Unlock()
	go d.drainModes()
}

func (d *Device) drainModes() {
	for {
		d.modeMu.Lock()
		if len(d.modeQueue) == 0 {
			d.modeRunning = false
			d.modeMu.Unlock()
			return
		}
		fn := d.modeQueue[0]
		d.modeQueue = d.modeQueue[1:]
		d.modeMu.Unlock()
		fn()
	}
}

const commandTimeout = 30 * time.Second

func (d *Device) run(ctx context.Context, what string, argv []string) {
	if err := RunCommand(ctx, argv); err != nil {
		logger.Warn("device command failed", logger.Fields{"command": what, "error": err.Error()})
	}
}

// RunCommand runs argv to completion. A nil or empty argv does nothing.
func RunCommand(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return nil
	}
	c := cmd.NewCmdOptions(cmd.Options{Buffered: true}, argv[0], argv[1:]...)
	statusChan := c.Start()

	select {
	case status := <-statusChan:
		if status.Error != nil {
			return errors.Wrapf(errors.ErrDeviceCommand, "%s: %v", argv[0], status.Error)
		}
		if !status.Complete {
			return errors.Wrapf(errors.ErrDeviceCommand, "%s terminated by signal", argv[0])
		}
		if status.Exit != 0 {
			return errors.Wrapf(errors.ErrDeviceCommand, "%s exited with %d: %s", argv[0], status.Exit, strings.Join(status.Stderr, " "))
		}
		return nil
	case <-ctx.Done():
		_ = c.Stop()
		return ctx.Err()
	}
}
