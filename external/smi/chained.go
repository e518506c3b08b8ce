// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package smi

import (
	"fmt"
	"sync"

	"github.com/platinasystems/swreg/external/poll"
)

// Multi-chip registers at the strapped PHY address.
const (
	CommandReg uint8 = 0
	DataReg    uint8 = 1
)

// Command register fields
//
//	[15] busy
//	[12] 1 => clause 22
//	[11:10] op: 1 => write, 2 => read
//	[9:5] device address
//	[4:0] register address
const (
	CommandBusy     uint16 = 1 << 15
	CommandClause22 uint16 = 1 << 12
	CommandWrite    uint16 = 1 << 10
	CommandRead     uint16 = 2 << 10
)

func Command(op uint16, dev, reg uint8) uint16 {
	return CommandBusy | CommandClause22 | op |
		uint16(dev&MaxAddr)<<5 | uint16(reg&MaxAddr)
}

// mu is held across each whole register access; every table family shares
// the command and data register pair.
type chained struct {
	mu     sync.Mutex
	bus    Bus
	phy    uint8
	policy poll.Policy
}

func (c *chained) wait(op string, dev, reg uint8) error {
	return c.policy.Wait(fmt.Sprintf("smi %s %#x.%#x", op, dev, reg),
		func() (bool, error) {
			v, err := c.bus.Read(c.phy, CommandReg)
			if err != nil {
				return false, transportError(op, dev, reg, err)
			}
			return v&CommandBusy == 0, nil
		})
}

func (c *chained) ReadReg(dev, reg uint8) (v uint16, err error) {
	if err = checkAddr(dev, reg); err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err = c.wait("read", dev, reg); err != nil {
		return
	}
	err = c.bus.Write(c.phy, CommandReg, Command(CommandRead, dev, reg))
	if err != nil {
		err = transportError("read", dev, reg, err)
		return
	}
	if err = c.wait("read", dev, reg); err != nil {
		return
	}
	if v, err = c.bus.Read(c.phy, DataReg); err != nil {
		err = transportError("read", dev, reg, err)
	}
	return
}

func (c *chained) WriteReg(dev, reg uint8, v uint16) (err error) {
	if err = checkAddr(dev, reg); err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err = c.wait("write", dev, reg); err != nil {
		return
	}
	if err = c.bus.Write(c.phy, DataReg, v); err != nil {
		return transportError("write", dev, reg, err)
	}
	err = c.bus.Write(c.phy, CommandReg, Command(CommandWrite, dev, reg))
	if err != nil {
		return transportError("write", dev, reg, err)
	}
	return c.wait("write", dev, reg)
}
