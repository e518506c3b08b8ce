// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package smi reaches switch registers over a serial management bus either
// directly, with the switch answering at each device address, or chained
// through the multi-chip command/data register pair at one PHY address.
package smi

import (
	"fmt"

	"github.com/platinasystems/swreg/external/poll"
	"github.com/platinasystems/swreg/external/swerr"
)

// MaxAddr is the largest clause 22 PHY, device, or register address.
const MaxAddr = 0x1f

//go:generate mockgen -source=smi.go -destination=mock_bus_test.go -package=smi Bus

// Bus is the injected management bus primitive.
type Bus interface {
	Read(phy, reg uint8) (uint16, error)
	Write(phy, reg uint8, v uint16) error
}

// Transport reads and writes switch registers by device address.
type Transport interface {
	ReadReg(dev, reg uint8) (uint16, error)
	WriteReg(dev, reg uint8, v uint16) error
}

// Mode selects the Transport.  The zero Mode is Direct.
type Mode struct {
	chained bool
	phy     uint8
}

func Direct() Mode { return Mode{} }

// Chained addresses a switch strapped for multi-chip mode at the given PHY
// address.
func Chained(phy uint8) Mode { return Mode{chained: true, phy: phy} }

func (m Mode) IsChained() bool { return m.chained }
func (m Mode) Phy() uint8      { return m.phy }

func (m Mode) String() string {
	if m.chained {
		return fmt.Sprintf("chained@%#x", m.phy)
	}
	return "direct"
}

// New returns the Transport of the given mode. The policy bounds the
// multi-chip busy waits; direct mode doesn't use it.
func New(bus Bus, mode Mode, policy poll.Policy) (Transport, error) {
	if !mode.chained {
		return &direct{bus}, nil
	}
	if mode.phy > MaxAddr {
		return nil, swerr.Errorf(swerr.ErrBadParameter,
			"multi-chip phy %#x > %#x", mode.phy, MaxAddr)
	}
	return &chained{bus: bus, phy: mode.phy, policy: policy}, nil
}

func checkAddr(dev, reg uint8) error {
	if dev > MaxAddr {
		return swerr.Errorf(swerr.ErrBadParameter,
			"device %#x > %#x", dev, MaxAddr)
	}
	if reg > MaxAddr {
		return swerr.Errorf(swerr.ErrBadParameter,
			"register %#x > %#x", reg, MaxAddr)
	}
	return nil
}

func transportError(op string, dev, reg uint8, err error) error {
	return fmt.Errorf("smi %s %#x.%#x: %w: %v", op, dev, reg,
		swerr.ErrTransport, err)
}

type direct struct {
	bus Bus
}

func (d *direct) ReadReg(dev, reg uint8) (uint16, error) {
	if err := checkAddr(dev, reg); err != nil {
		return 0, err
	}
	v, err := d.bus.Read(dev, reg)
	if err != nil {
		return 0, transportError("read", dev, reg, err)
	}
	return v, nil
}

func (d *direct) WriteReg(dev, reg uint8, v uint16) error {
	if err := checkAddr(dev, reg); err != nil {
		return err
	}
	if err := d.bus.Write(dev, reg, v); err != nil {
		return transportError("write", dev, reg, err)
	}
	return nil
}
