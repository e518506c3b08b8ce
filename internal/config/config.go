// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package config resolves the switch a command talks to from an environment
// file, the process environment, and command line parameters, in increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/platinasystems/parms"

	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/poll"
	"github.com/platinasystems/swreg/external/smi"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
	"github.com/platinasystems/swreg/internal/mii"
)

// File is the default environment file, it's fine if it doesn't exist.
var File = "/etc/swreg.env"

const (
	EnvIface       = "SWREG_IFACE"
	EnvChip        = "SWREG_CHIP"
	EnvPhy         = "SWREG_PHY"
	EnvAttempts    = "SWREG_ATTEMPTS"
	EnvInterval    = "SWREG_INTERVAL"
	EnvMaxInterval = "SWREG_MAX_INTERVAL"
	EnvRedis       = "SWREG_REDIS"
)

// Parms recognized by Parse.
var Parms = []interface{}{
	[]string{"-i", "-iface"},
	"-chip",
	"-phy",
	"-attempts",
	"-interval",
	"-redis",
}

// Usage of the Parms.
const Usage = "[-i IFACE] [-chip NAME] [-phy ADDR] [-attempts N] " +
	"[-interval DURATION] [-redis ADDR]"

// Man describes the Parms for command manuals.
const Man = `
	-i IFACE	network interface of the management bus
	-chip NAME	switch variant, 88E6390 or 88E6393X
	-phy ADDR	multi-chip address; direct addressing if unset
	-attempts N	busy bit polls before giving up
	-interval D	pause between busy polls
	-redis ADDR	redis server of published counters

	These default to the SWREG_IFACE, SWREG_CHIP, SWREG_PHY,
	SWREG_ATTEMPTS, SWREG_INTERVAL and SWREG_REDIS variables of the
	environment or /etc/swreg.env.`

type Config struct {
	Iface   string
	Chip    string
	Mode    smi.Mode
	Policy  poll.Policy
	Redis   string
	Variant *variant.Variant

	bus io.Closer
}

// Defaults before the environment.
func Defaults() map[string]string {
	return map[string]string{
		EnvIface: "eth0",
		EnvChip:  "88E6390",
	}
}

// Parse the environment file, process environment and args; returning the
// args that aren't config parameters.
func Parse(args ...string) (*Config, []string, error) {
	env := Defaults()
	fenv, err := godotenv.Read(File)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, args, fmt.Errorf("%s: %w", File, err)
	}
	for k, v := range fenv {
		env[k] = v
	}
	for _, k := range []string{EnvIface, EnvChip, EnvPhy, EnvAttempts,
		EnvInterval, EnvMaxInterval, EnvRedis} {
		if v, found := os.LookupEnv(k); found {
			env[k] = v
		}
	}
	parm, args := parms.New(args, Parms...)
	for name, k := range map[string]string{
		"-i":        EnvIface,
		"-chip":     EnvChip,
		"-phy":      EnvPhy,
		"-attempts": EnvAttempts,
		"-interval": EnvInterval,
		"-redis":    EnvRedis,
	} {
		if s := parm.ByName[name]; len(s) > 0 {
			env[k] = s
		}
	}
	c, err := New(env)
	return c, args, err
}

// New config from the given keys and values.
func New(env map[string]string) (*Config, error) {
	c := &Config{
		Iface: env[EnvIface],
		Chip:  env[EnvChip],
		Redis: env[EnvRedis],
		Mode:  smi.Direct(),
	}
	v, err := variant.Lookup(c.Chip)
	if err != nil {
		return nil, err
	}
	c.Variant = v
	if s := env[EnvPhy]; len(s) > 0 {
		phy, err := strconv.ParseUint(s, 0, 5)
		if err != nil {
			return nil, fmt.Errorf("%s: %q: %w", EnvPhy, s,
				swerr.ErrBadParameter)
		}
		c.Mode = smi.Chained(uint8(phy))
	}
	if s := env[EnvAttempts]; len(s) > 0 {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s: %q: %w", EnvAttempts, s,
				swerr.ErrBadParameter)
		}
		c.Policy.Attempts = n
	}
	for k, p := range map[string]*time.Duration{
		EnvInterval:    &c.Policy.Interval,
		EnvMaxInterval: &c.Policy.MaxInterval,
	} {
		if s := env[k]; len(s) > 0 {
			d, err := time.ParseDuration(s)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("%s: %q: %w", k, s,
					swerr.ErrBadParameter)
			}
			*p = d
		}
	}
	return c, nil
}

func (c *Config) String() string {
	var buf strings.Builder
	fmt.Fprintln(&buf, "iface:", c.Iface)
	fmt.Fprintln(&buf, "chip:", c.Chip)
	fmt.Fprintln(&buf, "mode:", c.Mode)
	fmt.Fprintln(&buf, "poll:", c.Policy)
	if len(c.Redis) > 0 {
		fmt.Fprintln(&buf, "redis:", c.Redis)
	}
	return buf.String()
}

// OpenBus opens the management bus of an interface.
var OpenBus = func(iface string) (Bus, error) {
	b, err := mii.Open(iface)
	if err != nil {
		return nil, err
	}
	return b, nil
}

type Bus interface {
	smi.Bus
	io.Closer
}

// Device opens the management bus of the configured interface; Close it
// when done with the Device.
func (c *Config) Device() (*indirect.Device, error) {
	bus, err := OpenBus(c.Iface)
	if err != nil {
		return nil, err
	}
	dev, err := c.DeviceOn(bus)
	if err != nil {
		bus.Close()
		return nil, err
	}
	c.bus = bus
	return dev, nil
}

func (c *Config) Close() error {
	if c.bus == nil {
		return nil
	}
	err := c.bus.Close()
	c.bus = nil
	return err
}

// DeviceOn returns a Device using the given bus in the configured mode.
func (c *Config) DeviceOn(bus smi.Bus) (*indirect.Device, error) {
	tr, err := smi.New(bus, c.Mode, c.Policy)
	if err != nil {
		return nil, err
	}
	return indirect.NewDevice(tr, c.Policy), nil
}
