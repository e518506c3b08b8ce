// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package indirect

import (
	"context"
	"errors"
	"fmt"

	"github.com/platinasystems/log"
	"golang.org/x/sync/semaphore"

	"github.com/platinasystems/swreg/external/poll"
	"github.com/platinasystems/swreg/external/smi"
	"github.com/platinasystems/swreg/external/swerr"
)

// Transactor owns a table family's register pair.
type Transactor struct {
	Family    Family
	Transport smi.Transport
	Policy    poll.Policy

	sem *semaphore.Weighted
}

func NewTransactor(f Family, tr smi.Transport, p poll.Policy) *Transactor {
	return &Transactor{
		Family:    f,
		Transport: tr,
		Policy:    p,
		sem:       semaphore.NewWeighted(1),
	}
}

// Session is the handle of a held family lock. It's only valid within the
// Do call that provided it.
type Session struct {
	t      *Transactor
	closed bool
}

// Do holds the family lock while f runs. The wait for the lock is unbounded;
// the lock is released on every return of f, including panics.
func (t *Transactor) Do(f func(*Session) error) error {
	// Acquire can't fail with a background context.
	if err := t.sem.Acquire(context.Background(), 1); err != nil {
		return err
	}
	s := &Session{t: t}
	defer func() {
		s.closed = true
		t.sem.Release(1)
	}()
	return f(s)
}

// Execute runs one transaction with the family lock held.
func (t *Transactor) Execute(tx *Transaction) error {
	return t.Do(func(s *Session) error {
		return s.Execute(tx)
	})
}

// ExecuteSequence runs the transactions in order with one hold of the family
// lock. The first failure ends the sequence; earlier transactions aren't
// undone.
func (t *Transactor) ExecuteSequence(txs ...*Transaction) error {
	return t.Do(func(s *Session) error {
		for _, tx := range txs {
			if err := s.Execute(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Session) Family() Family { return s.t.Family }

// Execute the busy-bit handshake of one transaction.
func (s *Session) Execute(tx *Transaction) (err error) {
	if s.closed {
		return swerr.Errorf(swerr.ErrBadParameter,
			"%s: session used after release", s.t.Family)
	}
	if err = s.t.check(tx); err != nil {
		return
	}
	defer func() {
		if err == nil || errors.Is(err, swerr.ErrNoSuchEntry) {
			return
		}
		if errors.Is(err, swerr.ErrBusy) {
			log.Print("daemon", "warn", s.t.Family, ": ", tx, ": ",
				err)
		}
		err = fmt.Errorf("%s: %w", tx, err)
	}()

	d := tx.Table
	tr := s.t.Transport
	if err = s.waitIdle(d); err != nil {
		return
	}
	if tx.Dir == Select {
		return tr.WriteReg(d.Dev, d.OpReg, tx.opWord(false))
	}
	w := tx.opWord(true)
	if tx.Dir == Write {
		if d.Payload.Present() {
			if len(tx.Tx) > 0 {
				w = d.Payload.Set(w, tx.Tx[0])
			}
		} else {
			for i, v := range tx.Tx {
				err = tr.WriteReg(d.Dev, d.DataReg+uint8(i), v)
				if err != nil {
					return
				}
			}
		}
	}
	if err = tr.WriteReg(d.Dev, d.OpReg, w); err != nil {
		return
	}
	if tx.Dir == Write && d.Flags&Executes == 0 {
		return
	}
	if err = s.waitIdle(d); err != nil {
		return
	}
	if tx.Dir == Write {
		return
	}
	if tx.Dir == Next || d.Payload.Present() {
		if w, err = tr.ReadReg(d.Dev, d.OpReg); err != nil {
			return
		}
	}
	if tx.Dir == Next {
		i := d.Index.Get(w)
		if i == d.Sentinel() {
			return fmt.Errorf("%s: %w", tx, swerr.ErrNoSuchEntry)
		}
		tx.Index = i
	}
	if d.Payload.Present() {
		if len(tx.Rx) > 0 {
			tx.Rx[0] = d.Payload.Get(w)
		}
		return
	}
	for i := range tx.Rx {
		tx.Rx[i], err = tr.ReadReg(d.Dev, d.DataReg+uint8(i))
		if err != nil {
			return
		}
	}
	return
}

func (s *Session) waitIdle(d *Descriptor) error {
	tr := s.t.Transport
	return s.t.Policy.Wait(d.Name, func() (bool, error) {
		w, err := tr.ReadReg(d.Dev, d.OpReg)
		if err != nil {
			return false, err
		}
		return w&d.busy() == 0, nil
	})
}

func (t *Transactor) check(tx *Transaction) error {
	d := tx.Table
	if d == nil {
		return swerr.Errorf(swerr.ErrBadParameter, "%s: nil table",
			t.Family)
	}
	if d.Family != t.Family {
		return swerr.Errorf(swerr.ErrBadParameter,
			"%s: table %s is in family %s", t.Family, d, d.Family)
	}
	for _, x := range []struct {
		name string
		f    Field
		v    uint16
	}{
		{"op", d.Op, uint16(tx.Op)},
		{"port", d.Port, uint16(tx.Port)},
		{"index", d.Index, tx.Index},
		{"pointer", d.Pointer, uint16(tx.Pointer)},
		{"page", d.Page, uint16(tx.Page)},
	} {
		if x.v > x.f.Max() {
			return swerr.Errorf(swerr.ErrBadParameter,
				"%s: %s %d > %d", d, x.name, x.v, x.f.Max())
		}
	}
	if n := len(tx.Tx); n > d.Words() {
		return swerr.Errorf(swerr.ErrBadParameter,
			"%s: %d data words > %d", d, n, d.Words())
	}
	if d.Payload.Present() && len(tx.Tx) > 0 && tx.Tx[0] > d.Payload.Max() {
		return swerr.Errorf(swerr.ErrBadParameter, "%s: payload %#x > %#x",
			d, tx.Tx[0], d.Payload.Max())
	}
	if n := len(tx.Rx); n > d.Words() {
		return swerr.Errorf(swerr.ErrBadParameter,
			"%s: %d data words > %d", d, n, d.Words())
	}
	if tx.Dir > Next {
		return swerr.Errorf(swerr.ErrBadParameter, "%s: %s", d, tx.Dir)
	}
	return nil
}
