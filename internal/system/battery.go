package system

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/glorpus-work/appmanager/pkg/errors"
)

// Battery is the part of a power supply's sysfs state the install
// pipeline cares about.
type Battery struct {
	Capacity int
	Status   string
}

// Charging reports whether the supply is on external power.
func (b Battery) Charging() bool {
	switch strings.ToLower(b.Status) {
	case "charging", "full":
		return true
	}
	return false
}

// ReadBattery reads capacity and status from a power_supply directory.
func ReadBattery(dir string) (Battery, error) {
	var b Battery
	raw, err := os.ReadFile(filepath.Join(dir, "capacity"))
	if err != nil {
		return b, errors.Wrap(err, "read battery capacity")
	}
	b.Capacity, err = strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return b, errors.Wrapf(err, "parse battery capacity %q", strings.TrimSpace(string(raw)))
	}
	if raw, err := os.ReadFile(filepath.Join(dir, "status")); err == nil {
		b.Status = strings.TrimSpace(string(raw))
	}
	return b, nil
}
