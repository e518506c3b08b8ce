// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package rmon reads the per-port RMON/MIB counter banks.
package rmon

import (
	"fmt"

	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
)

const (
	OpNop indirect.Opcode = iota
	OpFlushAll
	OpFlushPort
	_
	OpRead
	OpCapture
)

// Histogram selects which frames the size bins count.
type Histogram uint8

const (
	_ Histogram = iota
	RxHistogram
	TxHistogram
	RxTxHistogram
)

func (h Histogram) String() string {
	switch h {
	case RxHistogram:
		return "rx"
	case TxHistogram:
		return "tx"
	case RxTxHistogram:
		return "rx-tx"
	}
	return fmt.Sprint("histogram(", uint8(h), ")")
}

// Check that h is one of the three histogram modes.
func (h Histogram) Check() error {
	if h < RxHistogram || h > RxTxHistogram {
		return swerr.Errorf(swerr.ErrBadParameter, "%s: unknown", h)
	}
	return nil
}

func ParseHistogram(s string) (Histogram, error) {
	for h := RxHistogram; h <= RxTxHistogram; h++ {
		if s == h.String() {
			return h, nil
		}
	}
	return 0, swerr.Errorf(swerr.ErrBadParameter,
		"%q isn't rx, tx, or rx-tx", s)
}

// Counter is a named 32 bit counter of the port bank.
type Counter struct {
	Name    string
	Pointer uint8
}

var Counters = []Counter{
	{"in_good_octets_lo", 0x00},
	{"in_good_octets_hi", 0x01},
	{"in_bad_octets", 0x02},
	{"out_fcs_err", 0x03},
	{"in_unicasts", 0x04},
	{"deferred", 0x05},
	{"in_broadcasts", 0x06},
	{"in_multicasts", 0x07},
	{"octets_64", 0x08},
	{"octets_127", 0x09},
	{"octets_255", 0x0a},
	{"octets_511", 0x0b},
	{"octets_1023", 0x0c},
	{"octets_max", 0x0d},
	{"out_octets_lo", 0x0e},
	{"out_octets_hi", 0x0f},
	{"out_unicasts", 0x10},
	{"excessive", 0x11},
	{"out_multicasts", 0x12},
	{"out_broadcasts", 0x13},
	{"single", 0x14},
	{"out_pause", 0x15},
	{"in_pause", 0x16},
	{"multiple", 0x17},
	{"in_undersize", 0x18},
	{"in_fragments", 0x19},
	{"in_oversize", 0x1a},
	{"in_jabber", 0x1b},
	{"in_rx_err", 0x1c},
	{"in_fcs_err", 0x1d},
	{"collisions", 0x1e},
	{"late", 0x1f},
}

type Value struct {
	Counter
	Value uint32
}

type Stats struct {
	dev   *indirect.Device
	table *indirect.Descriptor
	ports int
}

func New(dev *indirect.Device, v *variant.Variant) *Stats {
	return &Stats{dev: dev, table: v.Stats, ports: v.Ports}
}

func (s *Stats) Ports() int { return s.ports }

func (s *Stats) checkPort(port uint8) error {
	if int(port) >= s.ports {
		return swerr.Errorf(swerr.ErrBadParameter, "port %d >= %d",
			port, s.ports)
	}
	return nil
}

func (s *Stats) check(port uint8, h Histogram) error {
	if err := s.checkPort(port); err != nil {
		return err
	}
	return h.Check()
}

// FlushAll clears the counters of every port.
func (s *Stats) FlushAll() error {
	return s.dev.Transact(&indirect.Transaction{
		Table: s.table,
		Op:    OpFlushAll,
		Dir:   indirect.Write,
	})
}

func (s *Stats) FlushPort(port uint8) error {
	if err := s.checkPort(port); err != nil {
		return err
	}
	return s.dev.Transact(&indirect.Transaction{
		Table: s.table,
		Op:    OpFlushPort,
		Dir:   indirect.Write,
		Port:  port,
	})
}

// Read captures a snapshot of the port's counters then reads every one of
// them with the stats family held throughout.
func (s *Stats) Read(port uint8, h Histogram) ([]Value, error) {
	if err := s.check(port, h); err != nil {
		return nil, err
	}
	values := make([]Value, len(Counters))
	err := s.dev.Family(indirect.Stats).Do(func(ss *indirect.Session) error {
		if err := s.capture(ss, port, h); err != nil {
			return err
		}
		for i, c := range Counters {
			v, err := s.counter(ss, port, h, c.Pointer)
			if err != nil {
				return err
			}
			values[i] = Value{c, v}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// ReadCounter captures and reads one counter.
func (s *Stats) ReadCounter(port uint8, h Histogram, name string) (uint32,
	error) {
	if err := s.check(port, h); err != nil {
		return 0, err
	}
	var c *Counter
	for i := range Counters {
		if Counters[i].Name == name {
			c = &Counters[i]
		}
	}
	if c == nil {
		return 0, swerr.Errorf(swerr.ErrBadParameter,
			"%q: unknown counter", name)
	}
	var v uint32
	err := s.dev.Family(indirect.Stats).Do(func(ss *indirect.Session) error {
		err := s.capture(ss, port, h)
		if err == nil {
			v, err = s.counter(ss, port, h, c.Pointer)
		}
		return err
	})
	return v, err
}

func (s *Stats) capture(ss *indirect.Session, port uint8,
	h Histogram) error {
	return ss.Execute(&indirect.Transaction{
		Table: s.table,
		Op:    OpCapture,
		Dir:   indirect.Write,
		Port:  port,
		Page:  uint8(h),
	})
}

func (s *Stats) counter(ss *indirect.Session, port uint8, h Histogram,
	pointer uint8) (uint32, error) {
	var rx [2]uint16
	err := ss.Execute(&indirect.Transaction{
		Table:   s.table,
		Op:      OpRead,
		Dir:     indirect.Read,
		Port:    port,
		Page:    uint8(h),
		Pointer: pointer,
		Rx:      rx[:],
	})
	return uint32(rx[0])<<16 | uint32(rx[1]), err
}
