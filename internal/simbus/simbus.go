// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package simbus emulates a switch's indirect tables behind an smi.Bus for
// tests and dry runs.
//
// The emulation is register level: an issued operation word is decoded
// with the table's Descriptor and acted on per the Action mapped to its
// opcode; the busy bit then reads set for Latency polls.
package simbus

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/smi"
)

var ErrNoDevice = errors.New("no device")

type Action uint8

const (
	Nop Action = iota
	// Store the data window, or in-word payload, in the addressed entry.
	Store
	// Load the addressed entry into the data window or in-word payload.
	Load
	// Next finds the lowest entry above the index and loads it.
	Next
	FlushAll
	// FlushEntry removes every page and pointer of the index.
	FlushEntry
	// FlushPort removes every entry of the port.
	FlushPort
)

// Key addresses one stored entry.
type Key struct {
	Port    uint8
	Index   uint16
	Pointer uint8
	Page    uint8
}

// Access is a logged register write.
type Access struct {
	Dev, Reg uint8
	V        uint16
}

type table struct {
	d       *indirect.Descriptor
	ops     map[indirect.Opcode]Action
	op      uint16
	pending int
	entries map[Key][]uint16
	windows map[uint8][]uint16
}

func (t *table) window(page uint8) []uint16 {
	w, found := t.windows[page]
	if !found {
		w = make([]uint16, t.d.DataWords)
		t.windows[page] = w
	}
	return w
}

func (t *table) page() uint8 { return uint8(t.d.Page.Get(t.op)) }

func (t *table) dataReg(reg uint8) (int, bool) {
	i := int(reg) - int(t.d.DataReg)
	return i, i >= 0 && i < t.d.DataWords
}

type Switch struct {
	// Latency is the number of busy reads following each issue.
	Latency int

	// Stuck holds every busy bit set.
	Stuck bool

	// Fail, if non-nil, is returned by every bus access.
	Fail error

	mu      sync.Mutex
	chained bool
	phy     uint8
	cmd     uint16
	data    uint16
	regs    map[[2]uint8]uint16
	tables  map[[2]uint8]*table
	writes  []Access
	nreads  int
}

func New() *Switch {
	return &Switch{
		regs:   make(map[[2]uint8]uint16),
		tables: make(map[[2]uint8]*table),
	}
}

// Chain answers at phy through the multi-chip command and data registers
// instead of at each device address.
func (s *Switch) Chain(phy uint8) *Switch {
	s.chained, s.phy = true, phy
	return s
}

// Table emulates d with the given opcode actions.
func (s *Switch) Table(d *indirect.Descriptor,
	ops map[indirect.Opcode]Action) *Switch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[[2]uint8{d.Dev, d.OpReg}] = &table{
		d:       d,
		ops:     ops,
		entries: make(map[Key][]uint16),
		windows: make(map[uint8][]uint16),
	}
	return s
}

func (s *Switch) table(d *indirect.Descriptor) *table {
	t, found := s.tables[[2]uint8{d.Dev, d.OpReg}]
	if !found {
		panic(fmt.Errorf("simbus: %s: not emulated", d))
	}
	return t
}

// Hold sets the busy bit of d for the next n reads.
func (s *Switch) Hold(d *indirect.Descriptor, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table(d).pending = n
}

// Put stores an entry as if written by hardware.
func (s *Switch) Put(d *indirect.Descriptor, k Key, words ...uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table(d).entries[k] = append([]uint16(nil), words...)
}

// Entry returns a copy of a stored entry, nil if absent.
func (s *Switch) Entry(d *indirect.Descriptor, k Key) []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, found := s.table(d).entries[k]; found {
		return append([]uint16(nil), w...)
	}
	return nil
}

// Entries returns the number of stored entries of d.
func (s *Switch) Entries(d *indirect.Descriptor) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.table(d).entries)
}

// Writes returns and clears the register write log.
func (s *Switch) Writes() []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.writes
	s.writes = nil
	return w
}

// Reads returns the number of register reads so far.
func (s *Switch) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nreads
}

func (s *Switch) Read(phy, reg uint8) (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return 0, s.Fail
	}
	if !s.chained {
		return s.read(phy, reg), nil
	}
	if phy != s.phy {
		return 0, fmt.Errorf("phy %#x: %w", phy, ErrNoDevice)
	}
	switch reg {
	case smi.CommandReg:
		return s.cmd, nil
	case smi.DataReg:
		return s.data, nil
	}
	return 0, fmt.Errorf("phy %#x reg %#x: %w", phy, reg, ErrNoDevice)
}

func (s *Switch) Write(phy, reg uint8, v uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	if !s.chained {
		s.write(phy, reg, v)
		return nil
	}
	if phy != s.phy {
		return fmt.Errorf("phy %#x: %w", phy, ErrNoDevice)
	}
	switch reg {
	case smi.DataReg:
		s.data = v
	case smi.CommandReg:
		dev, r := uint8(v>>5)&smi.MaxAddr, uint8(v)&smi.MaxAddr
		switch v & (3 << 10) {
		case smi.CommandRead:
			s.data = s.read(dev, r)
		case smi.CommandWrite:
			s.write(dev, r, s.data)
		}
		s.cmd = v &^ smi.CommandBusy
	default:
		return fmt.Errorf("phy %#x reg %#x: %w", phy, reg, ErrNoDevice)
	}
	return nil
}

func (s *Switch) read(dev, reg uint8) uint16 {
	s.nreads++
	if t, found := s.tables[[2]uint8{dev, reg}]; found {
		w := t.op
		if s.Stuck || t.pending > 0 {
			if t.pending > 0 {
				t.pending--
			}
			w |= 1 << t.d.Busy
		}
		return w
	}
	for _, t := range s.tables {
		if t.d.Dev != dev {
			continue
		}
		if i, ok := t.dataReg(reg); ok {
			return t.window(t.page())[i]
		}
	}
	return s.regs[[2]uint8{dev, reg}]
}

func (s *Switch) write(dev, reg uint8, v uint16) {
	s.writes = append(s.writes, Access{dev, reg, v})
	if t, found := s.tables[[2]uint8{dev, reg}]; found {
		s.issue(t, v)
		return
	}
	for _, t := range s.tables {
		if t.d.Dev != dev {
			continue
		}
		if i, ok := t.dataReg(reg); ok {
			t.window(t.page())[i] = v
			return
		}
	}
	s.regs[[2]uint8{dev, reg}] = v
}

func (s *Switch) issue(t *table, w uint16) {
	d := t.d
	busy := uint16(1) << d.Busy
	t.op = w &^ busy
	if w&busy == 0 {
		return
	}
	k := Key{
		Port:    uint8(d.Port.Get(w)),
		Index:   d.Index.Get(w),
		Pointer: uint8(d.Pointer.Get(w)),
		Page:    uint8(d.Page.Get(w)),
	}
	switch t.ops[indirect.Opcode(d.Op.Get(w))] {
	case Store:
		if d.Payload.Present() {
			t.entries[k] = []uint16{d.Payload.Get(w)}
		} else {
			t.entries[k] = append([]uint16(nil), t.window(k.Page)...)
		}
	case Load:
		t.load(k)
	case Next:
		k.Index = t.next(k)
		t.op = d.Index.Set(t.op, k.Index)
		if k.Index != d.Sentinel() {
			t.load(k)
		}
	case FlushAll:
		t.entries = make(map[Key][]uint16)
	case FlushEntry:
		for x := range t.entries {
			if x.Port == k.Port && x.Index == k.Index {
				delete(t.entries, x)
			}
		}
	case FlushPort:
		for x := range t.entries {
			if x.Port == k.Port {
				delete(t.entries, x)
			}
		}
	}
	t.pending = s.Latency
}

func (t *table) load(k Key) {
	e := t.entries[k]
	if t.d.Payload.Present() {
		v := uint16(0)
		if len(e) > 0 {
			v = e[0]
		}
		t.op = t.d.Payload.Set(t.op, v)
		return
	}
	w := t.window(k.Page)
	for i := range w {
		w[i] = 0
		if i < len(e) {
			w[i] = e[i]
		}
	}
}

func (t *table) next(k Key) uint16 {
	var indices []int
	for x := range t.entries {
		if x.Port != k.Port {
			continue
		}
		if k.Index == t.d.Sentinel() || x.Index > k.Index {
			indices = append(indices, int(x.Index))
		}
	}
	if len(indices) == 0 {
		return t.d.Sentinel()
	}
	sort.Ints(indices)
	return uint16(indices[0])
}

// Close satisfies io.Closer for callers that own their bus.
func (s *Switch) Close() error { return nil }
