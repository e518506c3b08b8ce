// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package tcam loads, reads and walks the TCAM and TCAM range check entries.
//
// A TCAM entry is three pages of the table's data registers: the key on
// pages 0 and 1, the action on page 2. A range check entry has its key on
// page 0 and its action on page 2. Each page is selected, written and loaded
// in turn with the TCAM family held for the whole entry.
package tcam

import (
	"errors"

	"github.com/platinasystems/swreg/external/codec"
	"github.com/platinasystems/swreg/external/indirect"
	"github.com/platinasystems/swreg/external/swerr"
	"github.com/platinasystems/swreg/external/variant"
)

const (
	OpNop indirect.Opcode = iota
	OpFlushAll
	OpFlushEntry
	OpLoad
	OpGetNext
	OpRead
)

const (
	keyPage    = 0
	actionPage = 2
)

// table is the page plumbing shared by the TCAM and range check tables.
type table struct {
	dev  *indirect.Device
	d    *indirect.Descriptor
	keys *codec.Layout
	acts *codec.Layout
}

func (t *table) pages() []uint8 {
	n := t.keys.Words / t.d.DataWords
	l := make([]uint8, 0, n+1)
	for p := 0; p < n; p++ {
		l = append(l, uint8(p))
	}
	return append(l, actionPage)
}

func (t *table) checkIndex(i uint16) error {
	if i >= t.d.Sentinel() {
		return swerr.Errorf(swerr.ErrBadParameter, "%s: index %d >= %d",
			t.d, i, t.d.Sentinel())
	}
	return nil
}

func (t *table) flushAll() error {
	return t.dev.Transact(&indirect.Transaction{
		Table: t.d,
		Op:    OpFlushAll,
		Dir:   indirect.Write,
	})
}

func (t *table) flush(i uint16) error {
	if err := t.checkIndex(i); err != nil {
		return err
	}
	return t.dev.Transact(&indirect.Transaction{
		Table: t.d,
		Op:    OpFlushEntry,
		Dir:   indirect.Write,
		Index: i,
	})
}

func (t *table) encode(key, act interface{}) ([]uint16, error) {
	kw, err := codec.Encode(t.keys, key)
	if err != nil {
		return nil, err
	}
	aw, err := codec.Encode(t.acts, act)
	if err != nil {
		return nil, err
	}
	return append(kw, aw...), nil
}

func (t *table) decode(words []uint16, key, act interface{}) error {
	n := t.keys.Words
	if err := codec.Decode(t.keys, words[:n], key); err != nil {
		return err
	}
	return codec.Decode(t.acts, words[n:], act)
}

// load selects, writes then loads each page of the entry.
func (t *table) load(i uint16, key, act interface{}) error {
	if err := t.checkIndex(i); err != nil {
		return err
	}
	words, err := t.encode(key, act)
	if err != nil {
		return err
	}
	var txs []*indirect.Transaction
	for n, page := range t.pages() {
		w := t.d.DataWords
		txs = append(txs,
			&indirect.Transaction{
				Table: t.d,
				Dir:   indirect.Select,
				Index: i,
				Page:  page,
			},
			&indirect.Transaction{
				Table: t.d,
				Op:    OpLoad,
				Dir:   indirect.Write,
				Index: i,
				Page:  page,
				Tx:    words[n*w : (n+1)*w],
			})
	}
	return t.dev.TransactSequence(txs...)
}

func (t *table) readPages(s *indirect.Session, i uint16,
	words []uint16) error {
	for n, page := range t.pages() {
		w := t.d.DataWords
		err := s.Execute(&indirect.Transaction{
			Table: t.d,
			Op:    OpRead,
			Dir:   indirect.Read,
			Index: i,
			Page:  page,
			Rx:    words[n*w : (n+1)*w],
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *table) words() []uint16 {
	return make([]uint16, t.d.DataWords*len(t.pages()))
}

func (t *table) read(i uint16, key, act interface{}) error {
	if err := t.checkIndex(i); err != nil {
		return err
	}
	words := t.words()
	err := t.dev.Family(indirect.TCAM).Do(func(s *indirect.Session) error {
		return t.readPages(s, i, words)
	})
	if err != nil {
		return err
	}
	return t.decode(words, key, act)
}

// next finds the lowest valid entry at or above from and reads it.
func (t *table) next(from uint16, key, act interface{}) (uint16, error) {
	if err := t.checkIndex(from); err != nil {
		return 0, err
	}
	start := from - 1
	if from == 0 {
		start = t.d.Sentinel()
	}
	tx := &indirect.Transaction{
		Table: t.d,
		Op:    OpGetNext,
		Dir:   indirect.Next,
		Index: start,
		Page:  keyPage,
	}
	words := t.words()
	err := t.dev.Family(indirect.TCAM).Do(func(s *indirect.Session) error {
		if err := s.Execute(tx); err != nil {
			return err
		}
		return t.readPages(s, tx.Index, words)
	})
	if err != nil {
		return 0, err
	}
	return tx.Index, t.decode(words, key, act)
}

// walk calls fn with each valid entry index in ascending order.
func (t *table) walk(fn func(uint16) error, key, act interface{}) error {
	for i := uint16(0); i < t.d.Sentinel(); i++ {
		found, err := t.next(i, key, act)
		if errors.Is(err, swerr.ErrNoSuchEntry) {
			return nil
		}
		if err != nil {
			return err
		}
		if err = fn(found); err != nil {
			return err
		}
		i = found
	}
	return nil
}

// TCAM is the frame classification table of one switch.
type TCAM struct {
	t  table
	rc table
}

func New(dev *indirect.Device, v *variant.Variant) *TCAM {
	return &TCAM{
		t: table{
			dev:  dev,
			d:    v.TCAM,
			keys: v.TCAMKey,
			acts: v.TCAMAction,
		},
		rc: table{
			dev:  dev,
			d:    v.TCAMRC,
			keys: v.RCKey,
			acts: v.TCAMAction,
		},
	}
}

func (t *TCAM) FlushAll() error { return t.t.flushAll() }

func (t *TCAM) Flush(i uint16) error { return t.t.flush(i) }

func (t *TCAM) Load(i uint16, e *Entry) error {
	return t.t.load(i, &e.Key, &e.Action)
}

func (t *TCAM) Read(i uint16) (Entry, error) {
	var e Entry
	err := t.t.read(i, &e.Key, &e.Action)
	return e, err
}

// Next returns the lowest valid entry at or above from; NoSuchEntry if
// there's none.
func (t *TCAM) Next(from uint16) (uint16, Entry, error) {
	var e Entry
	i, err := t.t.next(from, &e.Key, &e.Action)
	return i, e, err
}

// Walk calls fn with each valid entry in index order.
func (t *TCAM) Walk(fn func(uint16, *Entry) error) error {
	var e Entry
	return t.t.walk(func(i uint16) error { return fn(i, &e) },
		&e.Key, &e.Action)
}

func (t *TCAM) RCFlushAll() error { return t.rc.flushAll() }

func (t *TCAM) RCFlush(i uint16) error { return t.rc.flush(i) }

func (t *TCAM) RCLoad(i uint16, e *RCEntry) error {
	return t.rc.load(i, &e.Key, &e.Action)
}

func (t *TCAM) RCRead(i uint16) (RCEntry, error) {
	var e RCEntry
	err := t.rc.read(i, &e.Key, &e.Action)
	return e, err
}

func (t *TCAM) RCNext(from uint16) (uint16, RCEntry, error) {
	var e RCEntry
	i, err := t.rc.next(from, &e.Key, &e.Action)
	return i, e, err
}

func (t *TCAM) RCWalk(fn func(uint16, *RCEntry) error) error {
	var e RCEntry
	return t.rc.walk(func(i uint16) error { return fn(i, &e) },
		&e.Key, &e.Action)
}
