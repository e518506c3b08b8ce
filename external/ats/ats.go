// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ats programs the asynchronous traffic shaper buckets and the QCR
// stream filters that feed them.
package ats

import (
	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/rate"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
)

const (
	OpNop indirect.Opcode = iota
	OpFlushAll
	OpFlushEntry
	OpWrite
	OpRead
)

type Entry struct {
	Decrement    uint16 `field:"decrement"`
	Exponent     uint8  `field:"exponent"`
	Group        uint8  `field:"group"`
	Enable       bool   `field:"enable"`
	CBSLimit     uint32 `field:"cbsLimit"`
	MaxResidence uint8  `field:"maxResidence"`
}

// QCREntry is a per-stream filter.
type QCREntry struct {
	MaxSDU       uint16 `field:"maxSDU"`
	MaxSDUEnable bool   `field:"maxSDUEnable"`
	ATSIndex     uint8  `field:"atsIndex"`
	ATSEnable    bool   `field:"atsEnable"`
}

type ATS struct {
	dev      *indirect.Device
	ats, qcr *indirect.Descriptor
	entry    *codec.Layout
	filter   *codec.Layout
}

func New(dev *indirect.Device, v *variant.Variant) (*ATS, error) {
	if v.ATS == nil || v.QCR == nil {
		return nil, swerr.Errorf(swerr.ErrBadParameter,
			"%s: no asynchronous traffic shaper", v)
	}
	return &ATS{
		dev:    dev,
		ats:    v.ATS,
		qcr:    v.QCR,
		entry:  v.ATSEntry,
		filter: v.QCREntry,
	}, nil
}

func checkIndex(d *indirect.Descriptor, i uint16) error {
	if i > d.Index.Max() {
		return swerr.Errorf(swerr.ErrBadParameter, "%s: index %d > %d",
			d, i, d.Index.Max())
	}
	return nil
}

func (a *ATS) op(d *indirect.Descriptor, op indirect.Opcode,
	i uint16) error {
	if err := checkIndex(d, i); err != nil {
		return err
	}
	return a.dev.Transact(&indirect.Transaction{
		Table: d,
		Op:    op,
		Dir:   indirect.Write,
		Index: i,
	})
}

func (a *ATS) read(d *indirect.Descriptor, l *codec.Layout, i uint16,
	v interface{}) error {
	if err := checkIndex(d, i); err != nil {
		return err
	}
	words := make([]uint16, l.Words)
	err := a.dev.Family(indirect.ATS).Do(func(s *indirect.Session) error {
		return s.ReadWords(indirect.Transaction{
			Table: d,
			Op:    OpRead,
			Index: i,
		}, words)
	})
	if err != nil {
		return err
	}
	return codec.Decode(l, words, v)
}

func (a *ATS) write(d *indirect.Descriptor, l *codec.Layout, i uint16,
	v interface{}) error {
	if err := checkIndex(d, i); err != nil {
		return err
	}
	words, err := codec.Encode(l, v)
	if err != nil {
		return err
	}
	return a.dev.Family(indirect.ATS).Do(func(s *indirect.Session) error {
		return s.WriteWords(indirect.Transaction{
			Table: d,
			Op:    OpWrite,
			Index: i,
		}, words)
	})
}

func (a *ATS) FlushAll() error { return a.op(a.ats, OpFlushAll, 0) }

func (a *ATS) Flush(i uint16) error { return a.op(a.ats, OpFlushEntry, i) }

func (a *ATS) Read(i uint16) (Entry, error) {
	var e Entry
	err := a.read(a.ats, a.entry, i, &e)
	return e, err
}

func (a *ATS) Write(i uint16, e *Entry) error {
	return a.write(a.ats, a.entry, i, e)
}

// Configure quantizes spec, a kbps rate and byte burst, into an enabled
// entry of the group.
func (a *ATS) Configure(i uint16, spec rate.Spec, group,
	maxResidence uint8) (rate.Bucket, error) {
	if err := checkIndex(a.ats, i); err != nil {
		return rate.Bucket{}, err
	}
	b, err := rate.QuantizeATS(spec)
	if err != nil {
		return b, err
	}
	return b, a.Write(i, &Entry{
		Decrement:    b.Decrement,
		Exponent:     b.Exponent,
		Group:        group,
		Enable:       true,
		CBSLimit:     b.CBSLimit,
		MaxResidence: maxResidence,
	})
}

// Rate is the kbps rate of an entry.
func (a *ATS) Rate(i uint16) (float64, error) {
	e, err := a.Read(i)
	if err != nil {
		return 0, err
	}
	return rate.ATSRate(rate.Bucket{
		Exponent:  e.Exponent,
		Decrement: e.Decrement,
	})
}

func (a *ATS) QCRFlushAll() error { return a.op(a.qcr, OpFlushAll, 0) }

func (a *ATS) QCRFlush(i uint16) error { return a.op(a.qcr, OpFlushEntry, i) }

func (a *ATS) QCRRead(i uint16) (QCREntry, error) {
	var e QCREntry
	err := a.read(a.qcr, a.filter, i, &e)
	return e, err
}

func (a *ATS) QCRWrite(i uint16, e *QCREntry) error {
	if e.ATSEnable {
		if err := checkIndex(a.ats, uint16(e.ATSIndex)); err != nil {
			return err
		}
	}
	return a.write(a.qcr, a.filter, i, e)
}
