// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ptp configures per-port PTP time stamping and the AVB credit based
// shaper of each port queue. Both tables share the PTP family lock.
package ptp

import (
	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
)

const (
	OpNop   indirect.Opcode = 0
	OpWrite indirect.Opcode = 3
	OpRead  indirect.Opcode = 4
)

// Block of the PTP table holding the per-port configuration.
const portBlock = 0

type PortConfig struct {
	DisablePTP         bool  `field:"disPTP"`
	DisableTSOverwrite bool  `field:"disTSOverwrite"`
	DisableTSpecCheck  bool  `field:"disTSpecCheck"`
	TransportSpec      uint8 `field:"transSpec"`
	EtherTypeJump      uint8 `field:"etJump"`
	IPJump             uint8 `field:"ipJump"`
	ArrivalIntEnable   bool  `field:"arrIntEn"`
	DepartureIntEnable bool  `field:"depIntEn"`
	ArrivalTSMode      uint8 `field:"arrTSMode"`
}

// Qav is the credit based shaper of one port queue.
type Qav struct {
	Rate    uint16 `field:"rate"`
	HiLimit uint16 `field:"hiLimit"`
}

type PTP struct {
	dev    *indirect.Device
	ptp    *indirect.Descriptor
	avb    *indirect.Descriptor
	port   *codec.Layout
	qav    *codec.Layout
	ports  int
	queues int
}

func New(dev *indirect.Device, v *variant.Variant) *PTP {
	return &PTP{
		dev:    dev,
		ptp:    v.PTP,
		avb:    v.AVB,
		port:   v.PTPPort,
		qav:    v.AVBQav,
		ports:  v.Ports,
		queues: int(v.AVB.Index.Max()) + 1,
	}
}

func (p *PTP) checkPort(port uint8) error {
	if int(port) >= p.ports {
		return swerr.Errorf(swerr.ErrBadParameter, "port %d >= %d",
			port, p.ports)
	}
	return nil
}

func (p *PTP) read(d *indirect.Descriptor, l *codec.Layout,
	tx indirect.Transaction, v interface{}) error {
	words := make([]uint16, l.Words)
	tx.Table, tx.Op = d, OpRead
	err := p.dev.Family(d.Family).Do(func(s *indirect.Session) error {
		return s.ReadWords(tx, words)
	})
	if err != nil {
		return err
	}
	return codec.Decode(l, words, v)
}

func (p *PTP) write(d *indirect.Descriptor, l *codec.Layout,
	tx indirect.Transaction, v interface{}) error {
	words, err := codec.Encode(l, v)
	if err != nil {
		return err
	}
	tx.Table, tx.Op = d, OpWrite
	return p.dev.Family(d.Family).Do(func(s *indirect.Session) error {
		return s.WriteWords(tx, words)
	})
}

func (p *PTP) PortConfig(port uint8) (PortConfig, error) {
	var c PortConfig
	if err := p.checkPort(port); err != nil {
		return c, err
	}
	err := p.read(p.ptp, p.port, indirect.Transaction{
		Port: port,
		Page: portBlock,
	}, &c)
	return c, err
}

func (p *PTP) SetPortConfig(port uint8, c *PortConfig) error {
	if err := p.checkPort(port); err != nil {
		return err
	}
	return p.write(p.ptp, p.port, indirect.Transaction{
		Port: port,
		Page: portBlock,
	}, c)
}

func (p *PTP) checkQueue(port, queue uint8) error {
	if err := p.checkPort(port); err != nil {
		return err
	}
	if int(queue) >= p.queues {
		return swerr.Errorf(swerr.ErrBadParameter, "queue %d >= %d",
			queue, p.queues)
	}
	return nil
}

func (p *PTP) Qav(port, queue uint8) (Qav, error) {
	var q Qav
	if err := p.checkQueue(port, queue); err != nil {
		return q, err
	}
	err := p.read(p.avb, p.qav, indirect.Transaction{
		Port:  port,
		Index: uint16(queue),
	}, &q)
	return q, err
}

func (p *PTP) SetQav(port, queue uint8, q *Qav) error {
	if err := p.checkQueue(port, queue); err != nil {
		return err
	}
	return p.write(p.avb, p.qav, indirect.Transaction{
		Port:  port,
		Index: uint16(queue),
	}, q)
}
